package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/voucher/internal/voucher/store"
	"github.com/aussiebroadwan/voucher/pkg/httpx"
	"github.com/aussiebroadwan/voucher/pkg/vouchsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and a check
//	@Description	of the backing dataset store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	vouchsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	vouchsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &vouchsdk.HealthChecks{
			Store: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check store availability
		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := vouchsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
