package cmd

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/atelier/internal/mastery"
	"github.com/arcanaland/atelier/internal/storage"
)

// lockedKV reads fine but refuses every write
type lockedKV struct {
	storage.KeyValue
}

func (lockedKV) Set(key, value string) error {
	return errors.New("database is locked")
}

func TestResetProgress(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	kv := storage.NewMemory()
	require.NoError(t, mastery.NewStore(kv, logger).Save(mastery.NewSet("1-title", "2-style")))

	require.NoError(t, resetProgress(kv))
	assert.Equal(t, 0, mastery.NewStore(kv, logger).Load().Len())
}

func TestResetProgressNotSaved(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	kv := storage.NewMemory()
	require.NoError(t, mastery.NewStore(kv, logger).Save(mastery.NewSet("1-title")))

	err := resetProgress(lockedKV{kv})
	assert.EqualError(t, err, "progress was not reset: save known cards: database is locked")
	assert.True(t, mastery.NewStore(kv, logger).Load().Has("1-title"))
}

func TestIsYes(t *testing.T) {
	for _, s := range []string{"t", "TAK\n", "y", " yes "} {
		assert.True(t, isYes(s), s)
	}
	for _, s := range []string{"", "n", "nie", "maybe"} {
		assert.False(t, isYes(s), s)
	}
}
