package rotate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrariu/btrsnap/internal/backend/backendtest"
	"github.com/mpetrariu/btrsnap/internal/logging"
	"github.com/mpetrariu/btrsnap/internal/snapshot"
)

// makeSet builds n records sorted by name descending, newest first.
func makeSet(n int) snapshot.Set {
	var set snapshot.Set
	for i := n - 1; i >= 0; i-- {
		name := fmt.Sprintf("daily_2024-05-%02d_12:00:00", i+1)
		set = append(set, snapshot.Record{
			Name: name,
			Path: "/snaps/" + name,
		})
	}
	return set
}

func TestRotateKeepsNewestN(t *testing.T) {
	be := backendtest.New()
	set := makeSet(10)

	require.NoError(t, Rotate(context.Background(), set, 7, be, logging.Nop{}))

	require.Len(t, be.Deleted, 3)
	// Excess is deleted newest-to-oldest: days 3, 2, 1.
	assert.Equal(t, []string{
		"/snaps/daily_2024-05-03_12:00:00",
		"/snaps/daily_2024-05-02_12:00:00",
		"/snaps/daily_2024-05-01_12:00:00",
	}, be.Deleted)
}

func TestRotateNoExcess(t *testing.T) {
	be := backendtest.New()

	require.NoError(t, Rotate(context.Background(), makeSet(5), 7, be, logging.Nop{}))
	assert.Empty(t, be.DeleteAttempts)

	require.NoError(t, Rotate(context.Background(), makeSet(7), 7, be, logging.Nop{}))
	assert.Empty(t, be.DeleteAttempts)
}

func TestRotateKeepZeroDeletesAll(t *testing.T) {
	be := backendtest.New()
	set := makeSet(4)

	require.NoError(t, Rotate(context.Background(), set, 0, be, logging.Nop{}))
	assert.Len(t, be.Deleted, 4)
}

func TestRotateFailFast(t *testing.T) {
	be := backendtest.New()
	set := makeSet(8) // keep 3, excess of 5

	boom := errors.New("subvolume busy")
	be.DeleteErr = func(path string) error {
		// Second excess deletion blows up.
		if path == set[4].Path {
			return boom
		}
		return nil
	}

	err := Rotate(context.Background(), set, 3, be, logging.Nop{})
	require.ErrorIs(t, err, boom)

	// Exactly one deletion succeeded and nothing after the failure was
	// attempted.
	assert.Equal(t, []string{set[3].Path}, be.Deleted)
	assert.Equal(t, []string{set[3].Path, set[4].Path}, be.DeleteAttempts)
}
