package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/harborlight/ipsearch/internal/history"
)

func TestSaveSearchInsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "searches")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()

	rec := history.SearchRecord{
		ID:          "uuid-v7",
		Kind:        "patent",
		Query:       "neural network",
		SourceUsed:  "index",
		RecordCount: 20,
		ElapsedMS:   412,
		CreatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO searches").
		WithArgs(
			rec.ID,
			rec.Kind,
			rec.Query,
			rec.SourceUsed,
			rec.RecordCount,
			rec.ElapsedMS,
			rec.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.SaveSearch(context.Background(), rec)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSearchRequiresID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "")
	require.NoError(t, err)

	err = store.SaveSearch(context.Background(), history.SearchRecord{Kind: "patent"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentSearchesNewestFirst(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "searches")
	require.NoError(t, err)

	newer := time.Unix(1700000100, 0).UTC()
	older := time.Unix(1700000000, 0).UTC()

	rows := pgxmock.NewRows([]string{
		"id", "kind", "query", "source_used", "record_count", "elapsed_ms", "created_at",
	}).
		AddRow("b", "patent", "quantum", "browser", 3, int64(900), newer).
		AddRow("a", "trademark", "neuraledge", "fallback", 6, int64(120), older)

	mock.ExpectQuery("SELECT id, kind, query, source_used, record_count, elapsed_ms, created_at").
		WithArgs(2).
		WillReturnRows(rows)

	got, err := store.RecentSearches(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].ID)
	require.Equal(t, "fallback", got[1].SourceUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentSearchesQueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "searches")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT").WithArgs(20).WillReturnError(errors.New("down"))

	_, err = store.RecentSearches(context.Background(), 0)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithPoolValidatesTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewWithPool(mock, "bad-table;drop")
	require.Error(t, err)
}
