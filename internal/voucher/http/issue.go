package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/voucher/internal/voucher/service"
	"github.com/aussiebroadwan/voucher/pkg/httpx"
	"github.com/aussiebroadwan/voucher/pkg/slogx"
	"github.com/aussiebroadwan/voucher/pkg/vouchsdk"
)

type IssueHandler struct {
	RedemptionService *service.RedemptionService
}

// ServeHTTP godoc
//
//	@Summary		Issue Voucher Endpoint
//	@Description	Mint a new one-time voucher token for an offer. The raw token is
//	@Description	returned exactly once and is never retrievable again.
//	@Tags			Vouchers
//	@Accept			json
//	@Produce		json
//	@Security		ClientToken
//	@Param			request	body		vouchsdk.IssueVoucherRequest	true	"offer_id"
//	@Success		200		{object}	vouchsdk.IssueVoucherResponse	"token, offer_id"
//	@Failure		400		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/vouchers/issue [post].
func (h *IssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Parse JSON body
	var req vouchsdk.IssueVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, vouchsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	// Issue the voucher
	token, err := h.RedemptionService.Issue(ctx, req.OfferID, requestContext(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidIssueRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, vouchsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "offer_id is required",
			})
		default:
			log.Error("failed to issue voucher", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, vouchsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to issue voucher",
			})
		}
		return
	}

	// Return success response
	response := vouchsdk.IssueVoucherResponse{
		Token:   token,
		OfferID: req.OfferID,
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
