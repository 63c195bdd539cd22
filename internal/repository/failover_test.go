package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handicapstudent/ppt-project/internal/models"
)

// failingStateRepository errors on every call.
type failingStateRepository struct{}

var errRepoDown = errors.New("repository down")

func (failingStateRepository) GetState(context.Context, string) (*models.SessionState, error) {
	return nil, errRepoDown
}

func (failingStateRepository) SetState(context.Context, *models.SessionState) error {
	return errRepoDown
}

func (failingStateRepository) ClearState(context.Context, string) error {
	return errRepoDown
}

func (failingStateRepository) CheckRateLimit(context.Context, string, int, time.Duration) (bool, error) {
	return false, errRepoDown
}

func TestFailover_PrimaryHealthy(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemoryStateRepository()
	fallback := NewMemoryStateRepository()
	repo := NewFailoverStateRepository(primary, fallback, &logger)
	ctx := context.Background()

	state := &models.SessionState{UserID: "2021001", Restaurant: "한빛식당", Step: models.StepViewing}
	require.NoError(t, repo.SetState(ctx, state))

	got, err := primary.GetState(ctx, "2021001")
	require.NoError(t, err)
	assert.NotNil(t, got, "healthy primary receives the writes")

	got, err = fallback.GetState(ctx, "2021001")
	require.NoError(t, err)
	assert.Nil(t, got, "fallback untouched while primary is healthy")
}

func TestFailover_FallsBackOnError(t *testing.T) {
	logger := zerolog.Nop()
	fallback := NewMemoryStateRepository()
	repo := NewFailoverStateRepository(failingStateRepository{}, fallback, &logger)
	ctx := context.Background()

	state := &models.SessionState{UserID: "2021001", Restaurant: "한빛식당", Step: models.StepViewing}
	require.NoError(t, repo.SetState(ctx, state))

	got, err := repo.GetState(ctx, "2021001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "한빛식당", got.Restaurant)

	// once marked down, calls keep working through the fallback
	require.NoError(t, repo.ClearState(ctx, "2021001"))
	allowed, err := repo.CheckRateLimit(ctx, "login:2021001", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

// All methods touch the shared health fields, so concurrent sessions and
// logins must not race on them. Run with -race.
func TestFailover_ConcurrentHealthTracking(t *testing.T) {
	logger := zerolog.Nop()
	fallback := NewMemoryStateRepository()
	repo := NewFailoverStateRepository(failingStateRepository{}, fallback, &logger)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("20210%02d", n)
			state := &models.SessionState{UserID: userID, Restaurant: "한빛식당", Step: models.StepViewing}
			for j := 0; j < 20; j++ {
				assert.NoError(t, repo.SetState(ctx, state))
				_, err := repo.GetState(ctx, userID)
				assert.NoError(t, err)
				_, err = repo.CheckRateLimit(ctx, "login:"+userID, 100, time.Minute)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
}
