package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"
	"github.com/aussiebroadwan/voucher/internal/voucher/store"
	"github.com/aussiebroadwan/voucher/pkg/cryptox"
	"github.com/aussiebroadwan/voucher/pkg/idx"
	"github.com/aussiebroadwan/voucher/pkg/slogx"
)

var (
	ErrInvalidIssueRequest  = errors.New("invalid issue request")
	ErrInvalidRedeemRequest = errors.New("invalid redeem request")
	ErrTokenNotFound        = errors.New("token not found")
)

// RedemptionService enforces one-redemption-per-token semantics on top of the
// dataset store.
//
// The store only guarantees atomicity of a single Save, not isolation across
// load-check-append-save, so every mutation runs under mu. Two concurrent
// redeems for the same token that both observed "not yet redeemed" before
// either saved would otherwise both succeed; the double discount that this
// whole service exists to prevent.
type RedemptionService struct {
	Store store.Store

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time

	// OnMutate runs after a successful issue or redeem, outside any error
	// path. The app wires this to report-cache invalidation.
	OnMutate func()

	mu sync.Mutex
}

// Issue creates a voucher for the offer and returns its opaque token. The
// raw token is returned exactly once and is never logged.
func (s *RedemptionService) Issue(
	ctx context.Context,
	offerID string,
	reqCtx domain.RequestContext,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input before touching storage.
	if strings.TrimSpace(offerID) == "" {
		log.Warn("issue attempted with empty offer id")
		return "", ErrInvalidIssueRequest
	}

	// 2. Generate an unguessable token (256 bits of entropy).
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate voucher token", slog.Any("error", err))
		return "", err
	}

	// 3. Append the token record and persist under the dataset lock.
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.Store.Load(ctx)
	if err != nil {
		log.Error("failed to load dataset", slog.Any("error", err))
		return "", fmt.Errorf("issue: %w", err)
	}

	rec := domain.TokenRecord{
		ID:       idx.New().String(),
		Token:    token,
		OfferID:  offerID,
		IssuedAt: s.now(),
		Issuer:   reqCtx,
	}
	ds.Tokens = append(ds.Tokens, rec)

	if err := s.Store.Save(ctx, ds); err != nil {
		log.Error("failed to persist issued voucher",
			slog.String("record_id", rec.ID),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("issue: %w", err)
	}

	log.Info("voucher issued",
		slog.String("record_id", rec.ID),
		slog.String("offer_id", offerID),
	)

	s.mutated()
	return token, nil
}

// Redeem marks the token as used. The policy is strict exactly-once
// acceptance with idempotent reads on retries: the first successful call
// returns StatusOK, every later call returns StatusAlreadyRedeemed carrying
// the original redemption timestamp and store id. A token that was never
// issued is ErrTokenNotFound, distinct from already-redeemed, so a cashier
// can be told "invalid coupon" rather than "already used".
func (s *RedemptionService) Redeem(
	ctx context.Context,
	token string,
	storeID string,
	reqCtx domain.RequestContext,
) (domain.RedemptionResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input before touching storage.
	if token == "" {
		log.Warn("redeem attempted with empty token")
		return domain.RedemptionResult{}, ErrInvalidRedeemRequest
	}

	// 2. The whole check-append-save sequence holds the dataset lock.
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.Store.Load(ctx)
	if err != nil {
		log.Error("failed to load dataset", slog.Any("error", err))
		return domain.RedemptionResult{}, fmt.Errorf("redeem: %w", err)
	}

	// 3. The token must have been issued.
	issued, ok := ds.FindToken(token)
	if !ok {
		log.Warn("redeem attempted with unknown token")
		return domain.RedemptionResult{}, ErrTokenNotFound
	}

	// 4. A prior redemption makes this a side-effect-free idempotent read.
	if prior, ok := ds.FindRedemption(token); ok {
		log.Info("voucher already redeemed",
			slog.String("token_record_id", issued.ID),
			slog.Time("redeemed_at", prior.RedeemedAt),
		)
		return domain.RedemptionResult{
			Status:     domain.StatusAlreadyRedeemed,
			RedeemedAt: prior.RedeemedAt,
			StoreID:    prior.StoreID,
		}, nil
	}

	// 5. First redemption: append the record and persist.
	rec := domain.RedemptionRecord{
		ID:         idx.New().String(),
		Token:      token,
		RedeemedAt: s.now(),
		StoreID:    storeID,
		Redeemer:   reqCtx,
	}
	ds.Redemptions = append(ds.Redemptions, rec)

	if err := s.Store.Save(ctx, ds); err != nil {
		log.Error("failed to persist redemption",
			slog.String("record_id", rec.ID),
			slog.Any("error", err),
		)
		return domain.RedemptionResult{}, fmt.Errorf("redeem: %w", err)
	}

	log.Info("voucher redeemed",
		slog.String("record_id", rec.ID),
		slog.String("token_record_id", issued.ID),
		slog.String("offer_id", issued.OfferID),
		slog.String("store_id", storeID),
	)

	s.mutated()
	return domain.RedemptionResult{
		Status:     domain.StatusOK,
		RedeemedAt: rec.RedeemedAt,
		StoreID:    rec.StoreID,
	}, nil
}

// Dataset returns a read-only snapshot of the full dataset for reporting and
// export collaborators. Those callers must not mutate it or write around the
// engine.
func (s *RedemptionService) Dataset(ctx context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.Store.Load(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset export: %w", err)
	}
	return ds, nil
}

func (s *RedemptionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *RedemptionService) mutated() {
	if s.OnMutate != nil {
		s.OnMutate()
	}
}
