package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/events"
	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// failingStore wraps a store and fails every Set once armed.
type failingStore struct {
	persistence.Store
	failSet bool
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.failSet {
		return fmt.Errorf("%w: quota exceeded", persistence.ErrStorage)
	}
	return s.Store.Set(ctx, key, value)
}

var errBackendDown = errors.New("backend down")

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errBackendDown
}
func (brokenStore) Set(context.Context, string, string) error { return errBackendDown }
func (brokenStore) Remove(context.Context, string) error      { return errBackendDown }

func fixedClock() func() time.Time {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func newTestUserRepo(t *testing.T, store persistence.Store, seed bool) UserRepository {
	t.Helper()
	return newTestUserRepoWithDispatcher(t, store, seed, nil)
}

func newTestUserRepoWithDispatcher(t *testing.T, store persistence.Store, seed bool, dispatcher events.Dispatcher) UserRepository {
	t.Helper()
	repo, err := NewUserRepository(context.Background(), UserRepositoryDependencies{
		Store:            store,
		Dispatcher:       dispatcher,
		SeedDemoAccounts: seed,
		Now:              fixedClock(),
	})
	require.NoError(t, err)
	return repo
}

func ptr[T any](v T) *T { return &v }

func testProfile(email string) domain.UserProfile {
	return domain.UserProfile{
		Email:       email,
		Name:        "Mariam Al-Kuwari",
		Password:    "s3cret",
		Phone:       "+974 5000 0000",
		Nationality: "Qatar",
		DateOfBirth: "1990-05-17",
		Address:     "West Bay",
	}
}
