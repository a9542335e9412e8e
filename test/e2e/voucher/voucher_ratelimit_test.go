package voucher_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/voucher/pkg/vouchsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitEnforced runs the service with a tiny strict limit and
// verifies requests over the limit are rejected with 429.
func TestRateLimitEnforced(t *testing.T) {
	baseURL, cleanup := setupVoucherContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "3",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "3",
	})
	defer cleanup()

	client := vouchsdk.NewClient(baseURL, posClientToken)

	for i := range 3 {
		_, err := client.IssueVoucher(t.Context(), "coffee-10")
		require.NoError(t, err, "request %d should be within the limit", i)
	}

	_, err := client.IssueVoucher(t.Context(), "coffee-10")
	require.Error(t, err)

	var apiErr *vouchsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, "rate_limit_exceeded", apiErr.Code)
}
