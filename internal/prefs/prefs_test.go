package prefs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingDeletions_Lifecycle(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "prefs.yaml"))

	ids, err := f.PendingDeletions("trip")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, f.AddPendingDeletion("trip", "r1"))
	require.NoError(t, f.AddPendingDeletion("trip", "r2"))
	require.NoError(t, f.AddPendingDeletion("trip", "r1")) // duplicate

	ids, err = f.PendingDeletions("trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids)

	// Other groups are independent.
	ids, err = f.PendingDeletions("family")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, f.ClearPendingDeletions("trip"))
	ids, err = f.PendingDeletions("trip")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLastSync_RoundTrip(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "prefs.yaml"))

	at, err := f.LastSync("trip")
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	stamp := time.Date(2025, time.March, 16, 20, 0, 0, 0, time.UTC)
	require.NoError(t, f.SetLastSync("trip", stamp))

	at, err = f.LastSync("trip")
	require.NoError(t, err)
	assert.True(t, stamp.Equal(at))
}

func TestState_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	first := NewFile(path)
	require.NoError(t, first.AddPendingDeletion("trip", "r1"))
	require.NoError(t, first.SetLastSync("trip", time.Date(2025, time.March, 16, 20, 0, 0, 0, time.UTC)))

	second := NewFile(path)
	ids, err := second.PendingDeletions("trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)

	at, err := second.LastSync("trip")
	require.NoError(t, err)
	assert.False(t, at.IsZero())
}
