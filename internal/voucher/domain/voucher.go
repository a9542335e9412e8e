package domain

import "time"

// RequestContext carries audit fields captured from the caller. These are
// informational only; nothing in the core branches on them.
type RequestContext struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// TokenRecord is a single issued voucher. Records are immutable once written
// and are never deleted so the dataset doubles as the audit trail.
type TokenRecord struct {
	ID       string         `json:"id"`
	Token    string         `json:"token"`
	OfferID  string         `json:"offer_id"`
	IssuedAt time.Time      `json:"issued_at"`
	Issuer   RequestContext `json:"issuer,omitzero"`
}

// RedemptionRecord marks a token as used. The engine guarantees at most one
// record exists per token value.
type RedemptionRecord struct {
	ID         string         `json:"id"`
	Token      string         `json:"token"`
	RedeemedAt time.Time      `json:"redeemed_at"`
	StoreID    string         `json:"store_id,omitempty"`
	Redeemer   RequestContext `json:"redeemer,omitzero"`
}

type RedemptionStatus string

const (
	// StatusOK means this call performed the one and only redemption.
	StatusOK RedemptionStatus = "ok"

	// StatusAlreadyRedeemed means the token was redeemed by an earlier call.
	// This is a defined, side-effect-free outcome, not an error.
	StatusAlreadyRedeemed RedemptionStatus = "already_redeemed"
)

// RedemptionResult is returned from a redeem attempt. For
// StatusAlreadyRedeemed the timestamp and store id are those of the original
// redemption, so retries are idempotent reads.
type RedemptionResult struct {
	Status     RedemptionStatus `json:"status"`
	RedeemedAt time.Time        `json:"redeemed_at"`
	StoreID    string           `json:"store_id,omitempty"`
}
