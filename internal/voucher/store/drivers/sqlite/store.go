package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"

	_ "modernc.org/sqlite"
)

// Store implements the whole-dataset Load/Save contract over SQLite. It
// exists for deployments where a flat JSON file is no longer comfortable;
// the single-writer assumption is unchanged. Save replaces every row inside
// one transaction so the dataset is swapped as a unit, mirroring the file
// driver's atomic rename.
type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load reads every token and redemption row into a dataset.
func (s *Store) Load(ctx context.Context) (domain.Dataset, error) {
	ds := domain.EmptyDataset()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, token, offer_id, issued_at, issuer_ip, issuer_user_agent
		 FROM tokens ORDER BY issued_at, id`)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite store: load tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.TokenRecord
		if err := rows.Scan(&t.ID, &t.Token, &t.OfferID, &t.IssuedAt,
			&t.Issuer.IP, &t.Issuer.UserAgent); err != nil {
			return domain.Dataset{}, fmt.Errorf("sqlite store: scan token: %w", err)
		}
		ds.Tokens = append(ds.Tokens, t)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite store: load tokens: %w", err)
	}

	redRows, err := s.db.QueryContext(ctx,
		`SELECT id, token, redeemed_at, store_id, redeemer_ip, redeemer_user_agent
		 FROM redemptions ORDER BY redeemed_at, id`)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite store: load redemptions: %w", err)
	}
	defer redRows.Close()

	for redRows.Next() {
		var r domain.RedemptionRecord
		if err := redRows.Scan(&r.ID, &r.Token, &r.RedeemedAt, &r.StoreID,
			&r.Redeemer.IP, &r.Redeemer.UserAgent); err != nil {
			return domain.Dataset{}, fmt.Errorf("sqlite store: scan redemption: %w", err)
		}
		ds.Redemptions = append(ds.Redemptions, r)
	}
	if err := redRows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("sqlite store: load redemptions: %w", err)
	}

	return ds, nil
}

// Save replaces the full contents of both tables in one transaction.
func (s *Store) Save(ctx context.Context, ds domain.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM redemptions`); err != nil {
		return fmt.Errorf("sqlite store: clear redemptions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tokens`); err != nil {
		return fmt.Errorf("sqlite store: clear tokens: %w", err)
	}

	for _, t := range ds.Tokens {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (id, token, offer_id, issued_at, issuer_ip, issuer_user_agent)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Token, t.OfferID, t.IssuedAt, t.Issuer.IP, t.Issuer.UserAgent,
		); err != nil {
			return fmt.Errorf("sqlite store: insert token %s: %w", t.ID, err)
		}
	}

	for _, r := range ds.Redemptions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO redemptions (id, token, redeemed_at, store_id, redeemer_ip, redeemer_user_agent)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Token, r.RedeemedAt, r.StoreID, r.Redeemer.IP, r.Redeemer.UserAgent,
		); err != nil {
			return fmt.Errorf("sqlite store: insert redemption %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit: %w", err)
	}
	return nil
}
