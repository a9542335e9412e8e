package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/voucher/pkg/cachex"
)

// offersCacheKey is the single derived-data key the dashboards read through.
const offersCacheKey = "reports:offers"

// DefaultReportTTL bounds how stale dashboard numbers may get before a
// reload is due.
const DefaultReportTTL = 30 * time.Second

// OfferSummary is the per-offer aggregate served to dashboards.
type OfferSummary struct {
	OfferID        string    `json:"offer_id"`
	Issued         int       `json:"issued"`
	Redeemed       int       `json:"redeemed"`
	RedemptionRate float64   `json:"redemption_rate"`
	LastIssuedAt   time.Time `json:"last_issued_at"`
	LastRedeemedAt time.Time `json:"last_redeemed_at,omitzero"`
}

// ReportService serves derived, aggregated views of the dataset through the
// read-through cache so dashboards never hammer the store directly. Values
// are rebuildable at any time; the cache owns copies, never the truth.
type ReportService struct {
	Redemptions *RedemptionService
	Cache       *cachex.Cache

	// TTL defaults to DefaultReportTTL when zero.
	TTL time.Duration

	// AllowStale serves expired summaries immediately while a background
	// refresh runs, trading staleness for dashboard latency.
	AllowStale bool
}

// OfferSummaries returns per-offer aggregates, the cache origin of the
// answer, and an error if a required load failed.
func (s *ReportService) OfferSummaries(ctx context.Context) ([]OfferSummary, cachex.Origin, error) {
	v, origin, err := s.Cache.Get(ctx, offersCacheKey, s.loadOfferSummaries, s.ttl(), s.AllowStale)
	if err != nil {
		return nil, origin, fmt.Errorf("offer summaries: %w", err)
	}
	return v.([]OfferSummary), origin, nil
}

// Invalidate drops the cached summaries; the engine calls this after every
// successful mutation so dashboards converge quickly.
func (s *ReportService) Invalidate() {
	s.Cache.Invalidate(offersCacheKey)
}

func (s *ReportService) loadOfferSummaries(ctx context.Context) (any, error) {
	ds, err := s.Redemptions.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	byOffer := make(map[string]*OfferSummary)
	offerOfToken := make(map[string]string, len(ds.Tokens))

	for _, t := range ds.Tokens {
		offerOfToken[t.Token] = t.OfferID

		sum, ok := byOffer[t.OfferID]
		if !ok {
			sum = &OfferSummary{OfferID: t.OfferID}
			byOffer[t.OfferID] = sum
		}
		sum.Issued++
		if t.IssuedAt.After(sum.LastIssuedAt) {
			sum.LastIssuedAt = t.IssuedAt
		}
	}

	for _, r := range ds.Redemptions {
		offerID, ok := offerOfToken[r.Token]
		if !ok {
			// Redemption of a token missing from the issued set; tolerated
			// in the data, excluded from per-offer aggregates.
			continue
		}
		sum := byOffer[offerID]
		sum.Redeemed++
		if r.RedeemedAt.After(sum.LastRedeemedAt) {
			sum.LastRedeemedAt = r.RedeemedAt
		}
	}

	out := make([]OfferSummary, 0, len(byOffer))
	for _, sum := range byOffer {
		if sum.Issued > 0 {
			sum.RedemptionRate = float64(sum.Redeemed) / float64(sum.Issued)
		}
		out = append(out, *sum)
	}
	slices.SortFunc(out, func(a, b OfferSummary) int {
		return strings.Compare(a.OfferID, b.OfferID)
	})

	return out, nil
}

func (s *ReportService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultReportTTL
}
