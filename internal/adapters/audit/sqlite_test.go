package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obrienkev/clara-go/internal/domain/entities"
)

func TestSQLiteStore_AppendAndRecent(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	first := sampleRecord()
	second := sampleRecord()
	second.Intent = "greeting"
	second.EthicalLabel = "SAFE_LOW_RISK"

	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "greeting", records[0].Intent)
	assert.Equal(t, "informational", records[1].Intent)
	assert.Equal(t, entities.AuditSchemaVersion, records[0].Version)
}

func TestSQLiteStore_RecentLimit(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(sampleRecord()))
	}

	records, err := store.Recent(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestSQLiteStore_RoundTripPreservesTrace(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(sampleRecord()))

	records, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "care_privacy_fairness", records[0].Trace.Alignment)
	assert.Equal(t, entities.ConfidenceMedium, records[0].Trace.Confidence)

	// The stored payload carries no raw text fields at all.
	data, err := json.Marshal(records[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\"content\"")
}
