package vouchsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voucher api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client is a minimal HTTP client for the voucher service.
type Client struct {
	baseURL     string
	clientToken string
	httpClient  *http.Client
}

// NewClient creates a client for the service at baseURL. clientToken may be
// empty for read-only use (reports, health).
func NewClient(baseURL, clientToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		clientToken: clientToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IssueVoucher mints a new one-time voucher for the offer.
func (c *Client) IssueVoucher(ctx context.Context, offerID string) (IssueVoucherResponse, error) {
	var out IssueVoucherResponse
	err := c.do(ctx, http.MethodPost, "/v1/vouchers/issue",
		IssueVoucherRequest{OfferID: offerID}, &out)
	return out, err
}

// RedeemVoucher redeems a voucher token. Redeeming an already-used token is
// not an error; inspect Status on the response.
func (c *Client) RedeemVoucher(ctx context.Context, token, storeID string) (RedeemVoucherResponse, error) {
	var out RedeemVoucherResponse
	err := c.do(ctx, http.MethodPost, "/v1/vouchers/redeem",
		RedeemVoucherRequest{Token: token, StoreID: storeID}, &out)
	return out, err
}

// OfferReport fetches the cached per-offer summaries.
func (c *Client) OfferReport(ctx context.Context) (OfferReportResponse, error) {
	var out OfferReportResponse
	err := c.do(ctx, http.MethodGet, "/v1/reports/offers", nil, &out)
	return out, err
}

// Readyz checks service readiness.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.clientToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       apiErr.Error,
			Message:    apiErr.ErrorDescription,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
