package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/voucher/internal/voucher/domain"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vouchers.json")
	st, err := NewStore(path, nil)
	require.NoError(t, err)
	return st, path
}

func sampleDataset() domain.Dataset {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.Dataset{
		Tokens: []domain.TokenRecord{
			{ID: "01A", Token: "tok-a", OfferID: "coffee-10", IssuedAt: issued},
			{ID: "01B", Token: "tok-b", OfferID: "coffee-10", IssuedAt: issued.Add(time.Minute)},
		},
		Redemptions: []domain.RedemptionRecord{
			{ID: "01C", Token: "tok-a", RedeemedAt: issued.Add(2 * time.Minute), StoreID: "store-7"},
		},
	}
}

func TestLoadInitialisesMissingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, path := newTestStore(t)

	ds, err := st.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, ds.Tokens)
	require.Empty(t, ds.Redemptions)
	require.NotNil(t, ds.Tokens)
	require.NotNil(t, ds.Redemptions)

	// The empty dataset is persisted so the next startup finds a valid file.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"tokens":[],"redemptions":[]}`, string(raw))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, path := newTestStore(t)
	want := sampleDataset()

	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// No temporary artifact left behind.
	_, err = os.Stat(path + ".tmp")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRecoversFromCorruptFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, path := newTestStore(t)
	require.NoError(t, st.Save(ctx, sampleDataset()))

	// Simulate a hand-edit gone wrong.
	require.NoError(t, os.WriteFile(path, []byte(`{"tokens": [{"id":`), 0o640))

	ds, err := st.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, ds.Tokens)
	require.Empty(t, ds.Redemptions)

	// The replacement empty dataset is already on disk.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"tokens":[],"redemptions":[]}`, string(raw))
}

func TestLoadNormalisesNilSlices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o640))

	ds, err := st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, ds.Tokens)
	require.NotNil(t, ds.Redemptions)
}

func TestSaveOverwritesPreviousDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, _ := newTestStore(t)
	require.NoError(t, st.Save(ctx, sampleDataset()))

	smaller := domain.Dataset{
		Tokens:      []domain.TokenRecord{{ID: "01Z", Token: "tok-z", OfferID: "tea-5", IssuedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}},
		Redemptions: []domain.RedemptionRecord{},
	}
	require.NoError(t, st.Save(ctx, smaller))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, smaller, got)
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewStore("", nil)
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	require.NoError(t, st.Ping(context.Background()))
}
