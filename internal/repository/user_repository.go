package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/auth"
	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/events"
	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// UserRepository owns the users collection keyed by email.
type UserRepository interface {
	CreateUser(ctx context.Context, profile domain.UserProfile) (*domain.UserData, error)
	GetUser(ctx context.Context, email string) (*domain.UserData, error)
	GetAllUsers(ctx context.Context) ([]domain.UserData, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserProfile(ctx context.Context, email string, patch domain.ProfilePatch) (*domain.UserData, error)
	UpdateUserSettings(ctx context.Context, email string, patch domain.SettingsPatch) (*domain.UserData, error)
	ValidateCredentials(ctx context.Context, email, password string) (*domain.UserData, error)
	AddFeedback(ctx context.Context, email string) (*domain.UserData, error)
	AddSatisfactionRating(ctx context.Context, email, service string, rating float64) (*domain.UserData, error)
	AddServiceCenterRating(ctx context.Context, email, centerID, centerName string, rating float64) (*domain.UserData, error)
	AddAppointment(ctx context.Context, email string, req domain.AppointmentRequest) (string, error)
	UpdateAppointmentStatus(ctx context.Context, email, appointmentID string, status domain.AppointmentStatus) (*domain.UserData, error)
	AddNotification(ctx context.Context, email string, input NotificationInput) (*domain.Notification, error)
	MarkNotificationAsRead(ctx context.Context, email, notificationID string) (*domain.UserData, error)
	MarkAllNotificationsAsRead(ctx context.Context, email string) (*domain.UserData, error)
}

// NotificationInput is the caller-supplied part of a new notification.
type NotificationInput struct {
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    domain.NotificationType `json:"type"`
}

// UserRepositoryDependencies bundles collaborators for the user repository.
type UserRepositoryDependencies struct {
	Store            persistence.Store
	Hasher           auth.PasswordHasher
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	SeedDemoAccounts bool
	Now              func() time.Time
}

type userRepository struct {
	store      persistence.Store
	hasher     auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	// mu serializes read-modify-write cycles on the users key.
	mu sync.Mutex
}

type userCollection map[string]domain.UserData

// NewUserRepository returns a ready repository. When deps.SeedDemoAccounts is
// set and the stored collection is empty, the demo accounts are written first.
func NewUserRepository(ctx context.Context, deps UserRepositoryDependencies) (UserRepository, error) {
	r := &userRepository{
		store:      deps.Store,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if r.hasher == nil {
		r.hasher = auth.PlaintextHasher{}
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

	if deps.SeedDemoAccounts {
		if err := r.seedDemoAccounts(ctx); err != nil {
			return nil, fmt.Errorf("seed demo accounts: %w", err)
		}
	}
	return r, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) load(ctx context.Context) (userCollection, error) {
	users := userCollection{}
	if err := loadSnapshot(ctx, r.store, r.logger, KeyUsers, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = userCollection{}
	}
	return users, nil
}

func (r *userRepository) save(ctx context.Context, users userCollection) error {
	return saveSnapshot(ctx, r.store, r.logger, KeyUsers, users)
}

func (r *userRepository) seedDemoAccounts(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	for _, profile := range DemoAccounts() {
		hashed, err := r.hasher.Hash(profile.Password)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		profile.Password = hashed
		profile.Created = r.now()
		users[profile.Email] = r.newUserData(profile)
	}
	if err := r.save(ctx, users); err != nil {
		return err
	}
	r.logger.Info("seeded demo accounts", zap.Int("count", len(users)))
	return nil
}

func (r *userRepository) newUserData(profile domain.UserProfile) domain.UserData {
	return domain.UserData{
		Profile:              profile,
		Settings:             domain.DefaultUserSettings(),
		SatisfactionRatings:  []domain.SatisfactionRating{},
		ServiceCenterRatings: []domain.ServiceCenterRating{},
		Appointments:         []domain.Appointment{},
		Notifications: []domain.Notification{{
			ID:      uuid.NewString(),
			Title:   "Welcome to Sharek",
			Message: "Your account is ready. Share your ideas and help shape public services.",
			Date:    r.now(),
			Read:    false,
			Type:    domain.NotificationInfo,
		}},
	}
}

func (r *userRepository) CreateUser(ctx context.Context, profile domain.UserProfile) (*domain.UserData, error) {
	profile.Email = normalizeEmail(profile.Email)
	if profile.Email == "" {
		return nil, domain.NewValidationError("email", "required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := users[profile.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}

	hashed, err := r.hasher.Hash(profile.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	profile.Password = hashed
	if profile.Created.IsZero() {
		profile.Created = r.now()
	}

	data := r.newUserData(profile)
	users[profile.Email] = data
	if err := r.save(ctx, users); err != nil {
		return nil, err
	}

	r.logger.Info("user created", zap.String("email", profile.Email))
	out := data.Clone()
	return &out, nil
}

func (r *userRepository) GetUser(ctx context.Context, email string) (*domain.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	data, ok := users[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := data.Clone()
	return &out, nil
}

// GetAllUsers returns every record ordered by creation time, then email.
func (r *userRepository) GetAllUsers(ctx context.Context) ([]domain.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserData, 0, len(users))
	for _, data := range users {
		out = append(out, data.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Profile.Created.Equal(out[j].Profile.Created) {
			return out[i].Profile.Created.Before(out[j].Profile.Created)
		}
		return out[i].Profile.Email < out[j].Profile.Email
	})
	return out, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := users[normalizeEmail(email)]
	return ok, nil
}

// ValidateCredentials returns the record only when password matches the stored value.
// A missing user and a wrong password both yield ErrInvalidCredentials.
func (r *userRepository) ValidateCredentials(ctx context.Context, email, password string) (*domain.UserData, error) {
	data, err := r.GetUser(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !r.hasher.Compare(data.Profile.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return data, nil
}

// mutate loads the collection, applies fn to the record for email and writes
// the whole collection back. Nothing is written when fn fails.
func (r *userRepository) mutate(ctx context.Context, email string, fn func(*domain.UserData) error) (*domain.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = normalizeEmail(email)
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	current, ok := users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}

	updated := current.Clone()
	if err := fn(&updated); err != nil {
		return nil, err
	}
	users[email] = updated
	if err := r.save(ctx, users); err != nil {
		return nil, err
	}

	out := updated.Clone()
	return &out, nil
}

func (r *userRepository) UpdateUserProfile(ctx context.Context, email string, patch domain.ProfilePatch) (*domain.UserData, error) {
	if patch.Password != nil {
		hashed, err := r.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.Password = &hashed
	}
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		data.Profile = patch.Apply(data.Profile)
		return nil
	})
}

func (r *userRepository) UpdateUserSettings(ctx context.Context, email string, patch domain.SettingsPatch) (*domain.UserData, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		data.Settings = patch.Apply(data.Settings)
		return nil
	})
}

func (r *userRepository) AddFeedback(ctx context.Context, email string) (*domain.UserData, error) {
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		data.FeedbackCount++
		return nil
	})
}

func (r *userRepository) AddSatisfactionRating(ctx context.Context, email, service string, rating float64) (*domain.UserData, error) {
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		data.SatisfactionRatings = append(data.SatisfactionRatings, domain.SatisfactionRating{
			Service: service,
			Rating:  rating,
			Date:    r.now(),
		})
		return nil
	})
}

// AddServiceCenterRating replaces the user's existing rating for centerID, or appends one.
func (r *userRepository) AddServiceCenterRating(ctx context.Context, email, centerID, centerName string, rating float64) (*domain.UserData, error) {
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		entry := domain.ServiceCenterRating{
			CenterID:   centerID,
			CenterName: centerName,
			Rating:     rating,
			Date:       r.now(),
		}
		for i := range data.ServiceCenterRatings {
			if data.ServiceCenterRatings[i].CenterID == centerID {
				data.ServiceCenterRatings[i] = entry
				return nil
			}
		}
		data.ServiceCenterRatings = append(data.ServiceCenterRatings, entry)
		return nil
	})
}

// AddAppointment schedules an appointment and returns its id, or "" with an
// error when the user does not exist.
func (r *userRepository) AddAppointment(ctx context.Context, email string, req domain.AppointmentRequest) (string, error) {
	appointment := domain.Appointment{
		ID:      uuid.NewString(),
		Service: req.Service,
		Date:    req.Date,
		Status:  domain.AppointmentScheduled,
	}
	if _, err := r.mutate(ctx, email, func(data *domain.UserData) error {
		data.Appointments = append(data.Appointments, appointment)
		return nil
	}); err != nil {
		return "", err
	}

	_ = r.dispatcher.Publish(ctx, events.NewEvent(events.EventAppointmentScheduled, normalizeEmail(email), events.AppointmentScheduledPayload{
		AppointmentID: appointment.ID,
		Service:       appointment.Service,
		Date:          appointment.Date,
	}))
	return appointment.ID, nil
}

func (r *userRepository) UpdateAppointmentStatus(ctx context.Context, email, appointmentID string, status domain.AppointmentStatus) (*domain.UserData, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be scheduled, completed or cancelled")
	}
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		for i := range data.Appointments {
			if data.Appointments[i].ID == appointmentID {
				data.Appointments[i].Status = status
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// AddNotification inserts a new unread notification at the head of the inbox.
func (r *userRepository) AddNotification(ctx context.Context, email string, input NotificationInput) (*domain.Notification, error) {
	if input.Type == "" {
		input.Type = domain.NotificationInfo
	}
	notification := domain.Notification{
		ID:      uuid.NewString(),
		Title:   input.Title,
		Message: input.Message,
		Date:    r.now(),
		Type:    input.Type,
	}
	if _, err := r.mutate(ctx, email, func(data *domain.UserData) error {
		data.Notifications = append([]domain.Notification{notification}, data.Notifications...)
		return nil
	}); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *userRepository) MarkNotificationAsRead(ctx context.Context, email, notificationID string) (*domain.UserData, error) {
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		for i := range data.Notifications {
			if data.Notifications[i].ID == notificationID {
				data.Notifications[i].Read = true
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *userRepository) MarkAllNotificationsAsRead(ctx context.Context, email string) (*domain.UserData, error) {
	return r.mutate(ctx, email, func(data *domain.UserData) error {
		for i := range data.Notifications {
			data.Notifications[i].Read = true
		}
		return nil
	})
}
