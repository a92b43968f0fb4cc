package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitySignup/internal/model"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	r, err := NewRepository(DefaultActivities(), nil)
	require.NoError(t, err)
	return r
}

func TestListActivities_ContainsSeed(t *testing.T) {
	r := newTestRepo(t)

	activities, err := r.ListActivities(context.Background())
	require.NoError(t, err)
	assert.Contains(t, activities, "Chess Club")
	assert.Contains(t, activities, "Programming Class")
	assert.Len(t, activities, len(DefaultActivities()))
}

func TestListActivities_ReturnsCopies(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	activities, err := r.ListActivities(ctx)
	require.NoError(t, err)
	chess := activities["Chess Club"]
	chess.Participants[0] = "mutated@example.com"

	fresh, err := r.GetActivity(ctx, "Chess Club")
	require.NoError(t, err)
	assert.NotContains(t, fresh.Participants, "mutated@example.com")
}

func TestAddThenRemove_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	before, err := r.GetActivity(ctx, "Chess Club")
	require.NoError(t, err)

	added, err := r.AddParticipant(ctx, "Chess Club", "test_student@example.com")
	require.NoError(t, err)
	assert.Contains(t, added.Participants, "test_student@example.com")

	removed, err := r.RemoveParticipant(ctx, "Chess Club", "test_student@example.com")
	require.NoError(t, err)
	assert.NotContains(t, removed.Participants, "test_student@example.com")
	assert.Equal(t, before.Participants, removed.Participants)
}

func TestAddParticipant_Errors(t *testing.T) {
	ctx := context.Background()
	r, err := NewRepository([]model.Activity{
		{Name: "Tiny", MaxParticipants: 1, Participants: []string{"a@example.com"}},
		{Name: "Open", MaxParticipants: 5, Participants: []string{"b@example.com"}},
	}, nil)
	require.NoError(t, err)

	_, err = r.AddParticipant(ctx, "Missing", "x@example.com")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = r.AddParticipant(ctx, "Tiny", "x@example.com")
	assert.ErrorIs(t, err, ErrActivityFull)

	_, err = r.AddParticipant(ctx, "Open", "b@example.com")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)
}

func TestAddParticipant_UnlimitedCapacity(t *testing.T) {
	ctx := context.Background()
	r, err := NewRepository([]model.Activity{{Name: "Open House"}}, nil)
	require.NoError(t, err)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := r.AddParticipant(ctx, "Open House", email)
		require.NoError(t, err)
	}
	a, err := r.GetActivity(ctx, "Open House")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, a.Participants)
}

func TestRemoveParticipant_Errors(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.RemoveParticipant(ctx, "Programming Class", "nonexistent_user@example.com")
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	_, err = r.RemoveParticipant(ctx, "Underwater Basket Weaving", "emma@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestRemoveParticipant_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	r, err := NewRepository([]model.Activity{
		{Name: "Band", Participants: []string{"a@x", "b@x", "c@x"}},
	}, nil)
	require.NoError(t, err)

	a, err := r.RemoveParticipant(ctx, "Band", "b@x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x", "c@x"}, a.Participants)
}

func TestNewRepository_RejectsBadSeed(t *testing.T) {
	_, err := NewRepository([]model.Activity{{Name: "A"}, {Name: "A"}}, nil)
	assert.Error(t, err)

	_, err = NewRepository([]model.Activity{{Name: ""}}, nil)
	assert.Error(t, err)
}

func TestNewRepository_DoesNotAliasSeed(t *testing.T) {
	seed := []model.Activity{{Name: "Band", Participants: []string{"a@x"}}}
	r, err := NewRepository(seed, nil)
	require.NoError(t, err)

	_, err = r.AddParticipant(context.Background(), "Band", "b@x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x"}, seed[0].Participants)
}

func TestCanceledContext(t *testing.T) {
	r := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.AddParticipant(ctx, "Chess Club", "late@example.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentSignups(t *testing.T) {
	ctx := context.Background()
	r, err := NewRepository([]model.Activity{{Name: "Hall", MaxParticipants: 50}}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.AddParticipant(ctx, "Hall", fmt.Sprintf("student%d@example.com", i))
		}(i)
	}
	wg.Wait()

	a, err := r.GetActivity(ctx, "Hall")
	require.NoError(t, err)
	assert.Len(t, a.Participants, 50)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.yaml")
	content := `activities:
  - name: Robotics
    description: Build robots
    schedule: Mondays
    max_participants: 8
    participants:
      - ada@example.com
  - name: Choir
    description: Sing together
    schedule: Fridays
    max_participants: 40
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	activities, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Robotics", activities[0].Name)
	assert.Equal(t, 8, activities[0].MaxParticipants)
	assert.Equal(t, []string{"ada@example.com"}, activities[0].Participants)
	assert.NotNil(t, activities[1].Participants)
	assert.Empty(t, activities[1].Participants)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = parseSeed([]byte("activities: []\n"))
	assert.Error(t, err)

	_, err = parseSeed([]byte("activities: [\n"))
	assert.Error(t, err)
}
