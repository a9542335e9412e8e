// Package vouchsdk provides typed request/response structures and a small
// HTTP client for the voucher service. Collaborators (POS integrations,
// dashboards, the e2e suite) should use this instead of hand-rolling JSON.
package vouchsdk

import "time"

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// IssueVoucherRequest asks for a new one-time voucher for an offer.
type IssueVoucherRequest struct {
	OfferID string `json:"offer_id"`
}

// IssueVoucherResponse carries the raw voucher token. This is the only time
// the token is ever transmitted; the service does not return it again.
type IssueVoucherResponse struct {
	Token   string `json:"token"`
	OfferID string `json:"offer_id"`
}

// RedeemVoucherRequest redeems a voucher token, optionally recording which
// physical store honoured it.
type RedeemVoucherRequest struct {
	Token   string `json:"token"`
	StoreID string `json:"store_id,omitempty"`
}

// RedeemVoucherResponse reports the redemption outcome. Status is "ok" for
// the first redemption and "already_redeemed" for every retry, in which case
// RedeemedAt and StoreID describe the original redemption.
type RedeemVoucherResponse struct {
	Status     string    `json:"status"`
	RedeemedAt time.Time `json:"redeemed_at"`
	StoreID    string    `json:"store_id,omitempty"`
}

// OfferSummary is the per-offer aggregate from the reports endpoint.
type OfferSummary struct {
	OfferID        string    `json:"offer_id"`
	Issued         int       `json:"issued"`
	Redeemed       int       `json:"redeemed"`
	RedemptionRate float64   `json:"redemption_rate"`
	LastIssuedAt   time.Time `json:"last_issued_at"`
	LastRedeemedAt time.Time `json:"last_redeemed_at,omitzero"`
}

// OfferReportResponse wraps the summaries list.
type OfferReportResponse struct {
	Offers []OfferSummary `json:"offers"`
}

// HealthChecks itemises dependency health in readiness responses.
type HealthChecks struct {
	Store string `json:"store"`
}

// HealthResponse is returned from /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
