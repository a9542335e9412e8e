package http

import (
	"net/http"

	"github.com/aussiebroadwan/voucher/internal/voucher/service"
	"github.com/aussiebroadwan/voucher/pkg/httpx"
	"github.com/aussiebroadwan/voucher/pkg/slogx"
	"github.com/aussiebroadwan/voucher/pkg/vouchsdk"
)

type OfferReportHandler struct {
	ReportService *service.ReportService
}

// ServeHTTP godoc
//
//	@Summary		Offer Report Endpoint
//	@Description	Per-offer issuance and redemption aggregates for dashboards, served
//	@Description	through a read-through cache. The X-Cache response header reports
//	@Description	where the answer came from: HIT, STALE, WAIT or MISS.
//	@Tags			Reports
//	@Produce		json
//	@Success		200	{object}	vouchsdk.OfferReportResponse	"offers"
//	@Failure		500	{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/reports/offers [get].
func (h *OfferReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	summaries, origin, err := h.ReportService.OfferSummaries(ctx)
	if err != nil {
		log.Error("failed to build offer report", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, vouchsdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to build offer report",
		})
		return
	}

	offers := make([]vouchsdk.OfferSummary, 0, len(summaries))
	for _, s := range summaries {
		offers = append(offers, vouchsdk.OfferSummary{
			OfferID:        s.OfferID,
			Issued:         s.Issued,
			Redeemed:       s.Redeemed,
			RedemptionRate: s.RedemptionRate,
			LastIssuedAt:   s.LastIssuedAt,
			LastRedeemedAt: s.LastRedeemedAt,
		})
	}

	w.Header().Set("X-Cache", string(origin))
	httpx.WriteJSON(w, http.StatusOK, vouchsdk.OfferReportResponse{Offers: offers})
}
