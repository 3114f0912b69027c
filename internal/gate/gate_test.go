package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrariu/btrsnap/internal/backend/backendtest"
	"github.com/mpetrariu/btrsnap/internal/policy"
	"github.com/mpetrariu/btrsnap/internal/snapshot"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mtimePolicy(threshold time.Duration) policy.Policy {
	return policy.Policy{
		Volume:    "/data",
		Label:     "daily",
		Threshold: threshold,
		Method:    policy.ModTime,
	}
}

func record(age time.Duration) snapshot.Record {
	return snapshot.Record{
		Name:    "daily_x",
		Path:    "/data/.snapshot/daily_x",
		ModTime: now.Add(-age),
	}
}

func TestDecideEmptySetProceeds(t *testing.T) {
	dec, err := Decide(mtimePolicy(time.Hour), nil, now, backendtest.New())
	require.NoError(t, err)
	assert.True(t, dec.Proceed)
}

func TestDecideThresholdZeroProceeds(t *testing.T) {
	// Threshold 0 disables throttling entirely; the backend must not even
	// be consulted.
	be := backendtest.New()
	set := snapshot.Set{record(time.Second)}

	dec, err := Decide(mtimePolicy(0), set, now, be)
	require.NoError(t, err)
	assert.True(t, dec.Proceed)
}

func TestDecideSkipsWhenVolumeUnchanged(t *testing.T) {
	be := backendtest.New()
	rec := record(2 * time.Hour)
	be.MTimes["/data"] = rec.ModTime // exact equality means no writes since

	dec, err := Decide(mtimePolicy(time.Hour), snapshot.Set{rec}, now, be)
	require.NoError(t, err)
	assert.False(t, dec.Proceed)
	assert.Equal(t, ReasonNoChanges, dec.Reason)
}

func TestDecideSkipsWhenTooRecent(t *testing.T) {
	be := backendtest.New()
	rec := record(10 * time.Minute)
	be.MTimes["/data"] = now // volume changed since the snapshot

	dec, err := Decide(mtimePolicy(time.Hour), snapshot.Set{rec}, now, be)
	require.NoError(t, err)
	assert.False(t, dec.Proceed)
	assert.Equal(t, ReasonTooRecent, dec.Reason)
}

func TestDecideProceedsWhenStale(t *testing.T) {
	be := backendtest.New()
	rec := record(2 * time.Hour)
	be.MTimes["/data"] = now

	dec, err := Decide(mtimePolicy(time.Hour), snapshot.Set{rec}, now, be)
	require.NoError(t, err)
	assert.True(t, dec.Proceed)
}

func TestDecideGenerationMethod(t *testing.T) {
	pol := policy.Policy{
		Volume:    "/data",
		Label:     "daily",
		Threshold: time.Hour,
		Method:    policy.Generation,
	}
	rec := record(2 * time.Hour)

	be := backendtest.New()
	be.Gens[rec.Path] = 100

	// Volume generation not beyond the snapshot's: nothing changed.
	be.Gens["/data"] = 100
	dec, err := Decide(pol, snapshot.Set{rec}, now, be)
	require.NoError(t, err)
	assert.False(t, dec.Proceed)
	assert.Equal(t, ReasonNoChanges, dec.Reason)

	// Volume advanced: proceed (the snapshot is old enough).
	be.Gens["/data"] = 101
	dec, err = Decide(pol, snapshot.Set{rec}, now, be)
	require.NoError(t, err)
	assert.True(t, dec.Proceed)
}

func TestDecideGenerationStillThrottled(t *testing.T) {
	// Even with new writes, a snapshot younger than the threshold blocks.
	pol := policy.Policy{
		Volume:    "/data",
		Label:     "daily",
		Threshold: time.Hour,
		Method:    policy.Generation,
	}
	rec := record(10 * time.Minute)

	be := backendtest.New()
	be.Gens[rec.Path] = 100
	be.Gens["/data"] = 200

	dec, err := Decide(pol, snapshot.Set{rec}, now, be)
	require.NoError(t, err)
	assert.False(t, dec.Proceed)
	assert.Equal(t, ReasonTooRecent, dec.Reason)
}

func TestDecideGenerationFetchFailure(t *testing.T) {
	pol := policy.Policy{
		Volume:    "/data",
		Label:     "daily",
		Threshold: time.Hour,
		Method:    policy.Generation,
	}

	// No generations registered at all: the fetch fails and the gate
	// reports it instead of guessing.
	_, err := Decide(pol, snapshot.Set{record(2 * time.Hour)}, now, backendtest.New())
	require.Error(t, err)
}
