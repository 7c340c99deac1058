package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/events"
	"github.com/spec-kit/sharek-engine/internal/moderation"
	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// Moderator decides whether free text may be stored.
type Moderator interface {
	IsFlagged(text string) bool
}

// ForumRepository owns the discussion thread list, newest first.
type ForumRepository interface {
	CreateIdea(ctx context.Context, input domain.NewIdeaInput) (*domain.ForumIdea, error)
	ListIdeas(ctx context.Context) ([]domain.ForumIdea, error)
	GetIdea(ctx context.Context, ideaID string) (*domain.ForumIdea, error)
	ToggleLike(ctx context.Context, ideaID string) (*domain.ForumIdea, error)
	AddComment(ctx context.Context, ideaID string, input domain.NewCommentInput) (*domain.ForumIdea, error)
	RecordView(ctx context.Context, ideaID string) (*domain.ForumIdea, error)
}

// ForumRepositoryDependencies bundles collaborators for the forum repository.
type ForumRepositoryDependencies struct {
	Store      persistence.Store
	Moderator  Moderator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

type forumRepository struct {
	store      persistence.Store
	moderator  Moderator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	mu         sync.Mutex
}

// NewForumRepository returns a thread store. A nil Moderator uses the default blocklist.
func NewForumRepository(deps ForumRepositoryDependencies) ForumRepository {
	r := &forumRepository{
		store:      deps.Store,
		moderator:  deps.Moderator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if r.moderator == nil {
		r.moderator = moderation.New()
	}
	if r.dispatcher == nil {
		r.dispatcher = events.Nop()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}
	return r
}

func cloneIdea(idea domain.ForumIdea) domain.ForumIdea {
	idea.Comments = append([]domain.Comment{}, idea.Comments...)
	return idea
}

func (r *forumRepository) load(ctx context.Context) ([]domain.ForumIdea, error) {
	var ideas []domain.ForumIdea
	if err := loadSnapshot(ctx, r.store, r.logger, KeyForumIdeas, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (r *forumRepository) save(ctx context.Context, ideas []domain.ForumIdea) error {
	return saveSnapshot(ctx, r.store, r.logger, KeyForumIdeas, ideas)
}

// CreateIdea rejects flagged titles or descriptions before anything is written,
// then prepends the new idea to the list.
func (r *forumRepository) CreateIdea(ctx context.Context, input domain.NewIdeaInput) (*domain.ForumIdea, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewValidationError("title", "required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.NewValidationError("description", "required")
	}
	if input.Category != "" && !input.Category.Valid() {
		return nil, domain.NewValidationError("category", "must be general, infrastructure, environment or services")
	}
	if r.moderator.IsFlagged(input.Title) || r.moderator.IsFlagged(input.Description) {
		r.logger.Info("idea rejected by moderation", zap.String("author", input.Author))
		return nil, domain.ErrFlagged
	}
	if input.Category == "" {
		input.Category = domain.CategoryGeneral
	}

	idea := domain.ForumIdea{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Author:      input.Author,
		Avatar:      input.Avatar,
		Timestamp:   r.now(),
		Category:    input.Category,
		Likes:       0,
		Replies:     0,
		Views:       1,
		IsLiked:     false,
		Comments:    []domain.Comment{},
		Image:       input.Image,
	}

	r.mu.Lock()
	ideas, err := r.load(ctx)
	if err == nil {
		err = r.save(ctx, append([]domain.ForumIdea{idea}, ideas...))
	}
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	_ = r.dispatcher.Publish(ctx, events.NewEvent(events.EventIdeaCreated, idea.ID, events.IdeaCreatedPayload{
		Title:  idea.Title,
		Author: idea.Author,
	}))
	out := cloneIdea(idea)
	return &out, nil
}

func (r *forumRepository) ListIdeas(ctx context.Context) ([]domain.ForumIdea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ideas, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ForumIdea, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, cloneIdea(idea))
	}
	return out, nil
}

func (r *forumRepository) GetIdea(ctx context.Context, ideaID string) (*domain.ForumIdea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ideas, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, idea := range ideas {
		if idea.ID == ideaID {
			out := cloneIdea(idea)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mutate applies fn to the idea with ideaID and rewrites the whole list.
func (r *forumRepository) mutate(ctx context.Context, ideaID string, fn func(*domain.ForumIdea)) (*domain.ForumIdea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ideas, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ideas {
		if ideas[i].ID != ideaID {
			continue
		}
		updated := cloneIdea(ideas[i])
		fn(&updated)
		ideas[i] = updated
		if err := r.save(ctx, ideas); err != nil {
			return nil, err
		}
		out := cloneIdea(updated)
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

// ToggleLike flips IsLiked and moves Likes by one in the same direction.
// The flag is global per idea, not per user.
func (r *forumRepository) ToggleLike(ctx context.Context, ideaID string) (*domain.ForumIdea, error) {
	return r.mutate(ctx, ideaID, func(idea *domain.ForumIdea) {
		idea.IsLiked = !idea.IsLiked
		if idea.IsLiked {
			idea.Likes++
		} else {
			idea.Likes--
		}
	})
}

// AddComment appends a moderated comment and keeps Replies equal to len(Comments).
func (r *forumRepository) AddComment(ctx context.Context, ideaID string, input domain.NewCommentInput) (*domain.ForumIdea, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.NewValidationError("text", "required")
	}
	if r.moderator.IsFlagged(input.Text) {
		r.logger.Info("comment rejected by moderation", zap.String("idea_id", ideaID), zap.String("author", input.Author))
		return nil, domain.ErrFlagged
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		Author:    input.Author,
		Text:      input.Text,
		Timestamp: r.now(),
		Avatar:    input.Avatar,
	}
	idea, err := r.mutate(ctx, ideaID, func(idea *domain.ForumIdea) {
		idea.Comments = append(idea.Comments, comment)
		idea.Replies = len(idea.Comments)
	})
	if err != nil {
		return nil, err
	}

	_ = r.dispatcher.Publish(ctx, events.NewEvent(events.EventCommentAdded, ideaID, events.CommentAddedPayload{
		CommentID:   comment.ID,
		Author:      comment.Author,
		TextPreview: preview(comment.Text, 80),
	}))
	return idea, nil
}

func (r *forumRepository) RecordView(ctx context.Context, ideaID string) (*domain.ForumIdea, error) {
	return r.mutate(ctx, ideaID, func(idea *domain.ForumIdea) {
		idea.Views++
	})
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
