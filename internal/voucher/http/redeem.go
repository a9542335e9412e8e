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

type RedeemHandler struct {
	RedemptionService *service.RedemptionService
}

// ServeHTTP godoc
//
//	@Summary		Redeem Voucher Endpoint
//	@Description	Redeem a one-time voucher token. The first call redeems the voucher
//	@Description	and returns status "ok"; every retry returns status "already_redeemed"
//	@Description	with the original redemption timestamp, so retries are safe.
//	@Tags			Vouchers
//	@Accept			json
//	@Produce		json
//	@Security		ClientToken
//	@Param			request	body		vouchsdk.RedeemVoucherRequest	true	"token, store_id"
//	@Success		200		{object}	vouchsdk.RedeemVoucherResponse	"status, redeemed_at, store_id"
//	@Failure		400		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	vouchsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/vouchers/redeem [post].
func (h *RedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Parse JSON body
	var req vouchsdk.RedeemVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, vouchsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	// Attempt the redemption
	result, err := h.RedemptionService.Redeem(ctx, req.Token, req.StoreID, requestContext(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRedeemRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, vouchsdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "token is required",
			})
		case errors.Is(err, service.ErrTokenNotFound):
			// Never issued is distinct from already redeemed; the caller can
			// tell the customer "invalid voucher" instead of "already used".
			httpx.WriteJSON(w, http.StatusNotFound, vouchsdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Voucher token was never issued",
			})
		default:
			log.Error("failed to redeem voucher", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, vouchsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to redeem voucher",
			})
		}
		return
	}

	// Both first redemption and idempotent retry are 200s; Status tells them
	// apart.
	response := vouchsdk.RedeemVoucherResponse{
		Status:     string(result.Status),
		RedeemedAt: result.RedeemedAt,
		StoreID:    result.StoreID,
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
