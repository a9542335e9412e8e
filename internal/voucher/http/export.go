package http

import (
	"net/http"

	"github.com/aussiebroadwan/voucher/internal/voucher/service"
	"github.com/aussiebroadwan/voucher/pkg/httpx"
	"github.com/aussiebroadwan/voucher/pkg/slogx"
	"github.com/aussiebroadwan/voucher/pkg/vouchsdk"
)

type AdminExportHandler struct {
	RedemptionService *service.RedemptionService
}

// ServeHTTP godoc
//
//	@Summary		Dataset Export Endpoint
//	@Description	Export the full voucher dataset (issued tokens and redemptions) for
//	@Description	offline audit. Raw token values are included; treat the output as
//	@Description	sensitive.
//	@Tags			Admin
//	@Produce		json
//	@Security		BasicAuth
//	@Success		200	{object}	domain.Dataset			"tokens, redemptions"
//	@Failure		401	{object}	vouchsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	vouchsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/admin/export [get].
func (h *AdminExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ds, err := h.RedemptionService.Dataset(ctx)
	if err != nil {
		log.Error("failed to export dataset", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, vouchsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to export dataset",
		})
		return
	}

	log.Info("dataset exported",
		"tokens", len(ds.Tokens),
		"redemptions", len(ds.Redemptions),
	)

	httpx.WriteJSON(w, http.StatusOK, ds)
}
