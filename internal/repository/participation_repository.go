package repository

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// ParticipationRepository tracks which polls were voted on and which surveys
// were completed in this session. Recording is idempotent.
type ParticipationRepository interface {
	HasVoted(ctx context.Context, pollID int) (bool, error)
	RecordVote(ctx context.Context, pollID int) (bool, error)
	VotedPolls(ctx context.Context) ([]int, error)
	HasCompleted(ctx context.Context, surveyID int) (bool, error)
	RecordCompletion(ctx context.Context, surveyID int) (bool, error)
	CompletedSurveys(ctx context.Context) ([]int, error)
}

type participationRepository struct {
	store  persistence.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewParticipationRepository returns a tracker over store.
func NewParticipationRepository(store persistence.Store, logger *zap.Logger) ParticipationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &participationRepository{store: store, logger: logger}
}

// idSet is persisted as a sorted JSON array of numbers.
type idSet map[int]struct{}

func (r *participationRepository) loadSet(ctx context.Context, key string) (idSet, error) {
	var ids []int
	if err := loadSnapshot(ctx, r.store, r.logger, key, &ids); err != nil {
		return nil, err
	}
	set := make(idSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s idSet) sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *participationRepository) contains(ctx context.Context, key string, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.loadSet(ctx, key)
	if err != nil {
		return false, err
	}
	_, ok := set[id]
	return ok, nil
}

// record inserts id and rewrites the set. It reports whether id was newly added;
// an id already present is a no-op and nothing is written.
func (r *participationRepository) record(ctx context.Context, key string, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.loadSet(ctx, key)
	if err != nil {
		return false, err
	}
	if _, ok := set[id]; ok {
		return false, nil
	}
	set[id] = struct{}{}
	if err := saveSnapshot(ctx, r.store, r.logger, key, set.sorted()); err != nil {
		return false, err
	}
	return true, nil
}

func (r *participationRepository) list(ctx context.Context, key string) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.loadSet(ctx, key)
	if err != nil {
		return nil, err
	}
	return set.sorted(), nil
}

func (r *participationRepository) HasVoted(ctx context.Context, pollID int) (bool, error) {
	return r.contains(ctx, KeyVotedPolls, pollID)
}

func (r *participationRepository) RecordVote(ctx context.Context, pollID int) (bool, error) {
	return r.record(ctx, KeyVotedPolls, pollID)
}

func (r *participationRepository) VotedPolls(ctx context.Context) ([]int, error) {
	return r.list(ctx, KeyVotedPolls)
}

func (r *participationRepository) HasCompleted(ctx context.Context, surveyID int) (bool, error) {
	return r.contains(ctx, KeyCompletedSurveys, surveyID)
}

func (r *participationRepository) RecordCompletion(ctx context.Context, surveyID int) (bool, error) {
	return r.record(ctx, KeyCompletedSurveys, surveyID)
}

func (r *participationRepository) CompletedSurveys(ctx context.Context) ([]int, error) {
	return r.list(ctx, KeyCompletedSurveys)
}
