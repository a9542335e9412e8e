package store

import (
	"context"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"
)

// Store persists the voucher dataset as a single document. Concrete drivers
// (file, sqlite) implement this.
//
// The contract is deliberately coarse: Load returns the whole dataset, Save
// replaces the whole dataset. A driver guarantees that an individual Save is
// atomic (a crash mid-write never leaves a half-written dataset) but provides
// no isolation across a load-modify-save sequence. The redemption engine owns
// that critical section; see service.RedemptionService.
type Store interface {
	// Load reads the persisted dataset. A missing backing file or empty
	// database initialises and persists an empty dataset. Unreadable content
	// is discarded and reinitialised rather than surfaced as an error;
	// corruption must never take the service down.
	Load(ctx context.Context) (domain.Dataset, error)

	// Save atomically replaces the persisted dataset.
	Save(ctx context.Context, ds domain.Dataset) error

	// Ping verifies the backing medium is still reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
