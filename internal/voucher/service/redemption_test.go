package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"
	"github.com/aussiebroadwan/voucher/internal/voucher/store/drivers/file"
	"github.com/stretchr/testify/require"
)

func newRedemptionService(t *testing.T) *RedemptionService {
	t.Helper()

	st, err := file.NewStore(filepath.Join(t.TempDir(), "vouchers.json"), nil)
	require.NoError(t, err)

	return &RedemptionService{Store: st}
}

func TestIssueAndRedeemLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)
	caller := domain.RequestContext{IP: "10.0.0.1", UserAgent: "pos/1.0"}

	// Issue a voucher.
	token, err := svc.Issue(ctx, "coffee-10", caller)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// First redemption succeeds.
	result, err := svc.Redeem(ctx, token, "store-7", caller)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOK, result.Status)
	require.Equal(t, "store-7", result.StoreID)
	require.False(t, result.RedeemedAt.IsZero())

	// Retry is an idempotent read carrying the original redemption details,
	// even when the retry names a different store.
	retry, err := svc.Redeem(ctx, token, "store-9", caller)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAlreadyRedeemed, retry.Status)
	require.True(t, result.RedeemedAt.Equal(retry.RedeemedAt))
	require.Equal(t, "store-7", retry.StoreID)

	// The dataset holds exactly one redemption record.
	ds, err := svc.Dataset(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Tokens, 1)
	require.Len(t, ds.Redemptions, 1)
}

func TestIssueRejectsEmptyOffer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)

	_, err := svc.Issue(ctx, "", domain.RequestContext{})
	require.ErrorIs(t, err, ErrInvalidIssueRequest)

	_, err = svc.Issue(ctx, "   ", domain.RequestContext{})
	require.ErrorIs(t, err, ErrInvalidIssueRequest)
}

func TestRedeemRejectsEmptyToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)

	_, err := svc.Redeem(ctx, "", "store-7", domain.RequestContext{})
	require.ErrorIs(t, err, ErrInvalidRedeemRequest)
}

func TestRedeemUnknownToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)

	// A well-formed token that was never issued is not-found, not
	// already-redeemed.
	_, err := svc.Redeem(ctx, "never-issued-token", "store-7", domain.RequestContext{})
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedeemTokensAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)
	caller := domain.RequestContext{}

	tokenA, err := svc.Issue(ctx, "coffee-10", caller)
	require.NoError(t, err)
	tokenB, err := svc.Issue(ctx, "coffee-10", caller)
	require.NoError(t, err)

	// Redeeming A must not affect B.
	result, err := svc.Redeem(ctx, tokenA, "store-1", caller)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOK, result.Status)

	result, err = svc.Redeem(ctx, tokenB, "store-2", caller)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOK, result.Status)
}

func TestConcurrentRedeemsAcceptExactlyOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)

	token, err := svc.Issue(ctx, "coffee-10", domain.RequestContext{})
	require.NoError(t, err)

	const workers = 25
	results := make([]domain.RedemptionResult, workers)
	errs := make([]error, workers)

	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(workers)
	for i := range workers {
		go func() {
			defer done.Done()
			start.Wait()
			results[i], errs[i] = svc.Redeem(ctx, token, "store-7", domain.RequestContext{})
		}()
	}
	start.Done()
	done.Wait()

	accepted := 0
	for i := range workers {
		require.NoError(t, errs[i])
		switch results[i].Status {
		case domain.StatusOK:
			accepted++
		case domain.StatusAlreadyRedeemed:
			// Every loser observes the winner's redemption.
			require.Equal(t, "store-7", results[i].StoreID)
		default:
			t.Fatalf("unexpected status %q", results[i].Status)
		}
	}
	require.Equal(t, 1, accepted)

	ds, err := svc.Dataset(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Redemptions, 1)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)

	seen := make(map[string]bool)
	for range 50 {
		token, err := svc.Issue(ctx, "coffee-10", domain.RequestContext{})
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token issued")
		seen[token] = true
	}
}

func TestOnMutateFiresForMutationsOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)

	var calls int
	svc.OnMutate = func() { calls++ }

	token, err := svc.Issue(ctx, "coffee-10", domain.RequestContext{})
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	_, err = svc.Redeem(ctx, token, "", domain.RequestContext{})
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	// An idempotent retry writes nothing and must not fire the hook.
	_, err = svc.Redeem(ctx, token, "", domain.RequestContext{})
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	// Neither do failed calls.
	_, err = svc.Issue(ctx, "", domain.RequestContext{})
	require.ErrorIs(t, err, ErrInvalidIssueRequest)
	require.Equal(t, 2, calls)
}

func TestNowInjection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newRedemptionService(t)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	token, err := svc.Issue(ctx, "coffee-10", domain.RequestContext{})
	require.NoError(t, err)

	result, err := svc.Redeem(ctx, token, "", domain.RequestContext{})
	require.NoError(t, err)
	require.True(t, fixed.Equal(result.RedeemedAt))
}
