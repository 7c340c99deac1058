package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/sharek-engine/internal/auth"
	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/events"
	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// ---------------------------------------------------------------------------
// Seeding
// ---------------------------------------------------------------------------

func TestUserRepository_SeedsDemoAccountsOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := persistence.NewMemoryStore()

	repo := newTestUserRepo(t, store, true)

	first, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	second, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	// a second repository over the same store must not double-seed
	again := newTestUserRepo(t, store, true)
	third, err := again.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 3)
}

func TestUserRepository_NoSeedWhenCollectionPopulated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := persistence.NewMemoryStore()

	plain := newTestUserRepo(t, store, false)
	_, err := plain.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	seeded := newTestUserRepo(t, store, true)
	all, err := seeded.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "mariam@example.qa", all[0].Profile.Email)
}

func TestUserRepository_SeededCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), true)

	user, err := repo.ValidateCredentials(ctx, "demo@sharek.gov.qa", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "demo@sharek.gov.qa", user.Profile.Email)

	user, err = repo.ValidateCredentials(ctx, "demo@sharek.gov.qa", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, user)

	_, err = repo.ValidateCredentials(ctx, "nobody@sharek.gov.qa", "demo123")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserRepository_SeedWithBcrypt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := persistence.NewMemoryStore()

	repo, err := NewUserRepository(ctx, UserRepositoryDependencies{
		Store:            store,
		Hasher:           auth.BcryptHasher{Cost: bcrypt.MinCost},
		SeedDemoAccounts: true,
	})
	require.NoError(t, err)

	user, err := repo.ValidateCredentials(ctx, "demo@sharek.gov.qa", "demo123")
	require.NoError(t, err)
	assert.NotEqual(t, "demo123", user.Profile.Password)
}

func TestUserRepository_SeedFailsOnStorageError(t *testing.T) {
	t.Parallel()

	_, err := NewUserRepository(context.Background(), UserRepositoryDependencies{
		Store:            brokenStore{},
		SeedDemoAccounts: true,
	})
	require.ErrorIs(t, err, errBackendDown)
}

// ---------------------------------------------------------------------------
// Create / lookup
// ---------------------------------------------------------------------------

func TestUserRepository_CreateUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	created, err := repo.CreateUser(ctx, testProfile("Mariam@Example.qa "))
	require.NoError(t, err)

	assert.Equal(t, "mariam@example.qa", created.Profile.Email)
	assert.Equal(t, domain.DefaultUserSettings(), created.Settings)
	assert.Zero(t, created.FeedbackCount)
	assert.Empty(t, created.SatisfactionRatings)
	assert.Empty(t, created.ServiceCenterRatings)
	assert.Empty(t, created.Appointments)
	require.Len(t, created.Notifications, 1)
	assert.False(t, created.Notifications[0].Read)
	assert.False(t, created.Profile.Created.IsZero())

	got, err := repo.GetUser(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	dup := testProfile("mariam@example.qa")
	dup.Name = "Someone Else"
	_, err = repo.CreateUser(ctx, dup)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	exists, err := repo.EmailExists(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Mariam Al-Kuwari", all[0].Profile.Name)
}

func TestUserRepository_CreateUser_RequiresEmail(t *testing.T) {
	t.Parallel()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	_, err := repo.CreateUser(context.Background(), testProfile("  "))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserRepository_CreateUser_BcryptRejectsLongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := NewUserRepository(ctx, UserRepositoryDependencies{
		Store:  persistence.NewMemoryStore(),
		Hasher: auth.BcryptHasher{Cost: bcrypt.MinCost},
	})
	require.NoError(t, err)

	profile := testProfile("mariam@example.qa")
	profile.Password = strings.Repeat("p", 80)
	_, err = repo.CreateUser(ctx, profile)
	require.ErrorIs(t, err, domain.ErrValidation)

	exists, err := repo.EmailExists(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_GetUser_Absent(t *testing.T) {
	t.Parallel()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	user, err := repo.GetUser(context.Background(), "ghost@example.qa")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, user)

	exists, err := repo.EmailExists(context.Background(), "ghost@example.qa")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_ReturnedRecordIsACopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	created, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	created.Notifications[0].Read = true
	created.Profile.Name = "mutated"

	got, err := repo.GetUser(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.False(t, got.Notifications[0].Read)
	assert.Equal(t, "Mariam Al-Kuwari", got.Profile.Name)
}

// ---------------------------------------------------------------------------
// Malformed content and storage failures
// ---------------------------------------------------------------------------

func TestUserRepository_MalformedContentTreatedAsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyUsers, "{not json"))

	repo := newTestUserRepo(t, store, false)
	all, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	all, err = repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepository_MalformedContentReseeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyUsers, `["wrong","shape"]`))

	repo := newTestUserRepo(t, store, true)
	all, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepository_WriteFailureKeepsPriorSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &failingStore{Store: persistence.NewMemoryStore()}
	repo := newTestUserRepo(t, store, false)

	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	store.failSet = true
	_, err = repo.AddFeedback(ctx, "mariam@example.qa")
	require.ErrorIs(t, err, persistence.ErrStorage)

	store.failSet = false
	got, err := repo.GetUser(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.Zero(t, got.FeedbackCount)
}

// ---------------------------------------------------------------------------
// Merge updates
// ---------------------------------------------------------------------------

func TestUserRepository_UpdateUserProfile_MergesOnlyGivenFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	before, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	after, err := repo.UpdateUserProfile(ctx, "mariam@example.qa", domain.ProfilePatch{Phone: ptr("X")})
	require.NoError(t, err)

	assert.Equal(t, "X", after.Profile.Phone)
	expected := before.Profile
	expected.Phone = "X"
	assert.Equal(t, expected, after.Profile)
	assert.Equal(t, before.Settings, after.Settings)
}

func TestUserRepository_UpdateUserProfile_PasswordChangeIsHashed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, err := NewUserRepository(ctx, UserRepositoryDependencies{
		Store:  persistence.NewMemoryStore(),
		Hasher: auth.BcryptHasher{Cost: bcrypt.MinCost},
	})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	_, err = repo.UpdateUserProfile(ctx, "mariam@example.qa", domain.ProfilePatch{Password: ptr("n3w")})
	require.NoError(t, err)

	_, err = repo.ValidateCredentials(ctx, "mariam@example.qa", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = repo.ValidateCredentials(ctx, "mariam@example.qa", "n3w")
	require.NoError(t, err)
}

func TestUserRepository_UpdateUserSettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	lang := domain.LanguageArabic
	updated, err := repo.UpdateUserSettings(ctx, "mariam@example.qa", domain.SettingsPatch{
		Language:         &lang,
		SMSNotifications: ptr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageArabic, updated.Settings.Language)
	assert.False(t, updated.Settings.SMSNotifications)
	assert.True(t, updated.Settings.Notifications)
	assert.True(t, updated.Settings.EmailNotifications)
	assert.Equal(t, domain.ThemeLight, updated.Settings.Theme)

	bad := domain.Theme("neon")
	_, err = repo.UpdateUserSettings(ctx, "mariam@example.qa", domain.SettingsPatch{Theme: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserRepository_UpdatesOnMissingUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)

	_, err := repo.UpdateUserProfile(ctx, "ghost@example.qa", domain.ProfilePatch{Phone: ptr("X")})
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.UpdateUserSettings(ctx, "ghost@example.qa", domain.SettingsPatch{})
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.AddFeedback(ctx, "ghost@example.qa")
	require.ErrorIs(t, err, domain.ErrNotFound)

	id, err := repo.AddAppointment(ctx, "ghost@example.qa", domain.AppointmentRequest{Service: "ID renewal"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, id)
}

// ---------------------------------------------------------------------------
// Counters and ratings
// ---------------------------------------------------------------------------

func TestUserRepository_AddFeedback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = repo.AddFeedback(ctx, "mariam@example.qa")
		require.NoError(t, err)
	}
	got, err := repo.GetUser(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.Equal(t, 3, got.FeedbackCount)
}

func TestUserRepository_AddSatisfactionRating_AppendsRepeats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	_, err = repo.AddSatisfactionRating(ctx, "mariam@example.qa", "Visa services", 4)
	require.NoError(t, err)
	got, err := repo.AddSatisfactionRating(ctx, "mariam@example.qa", "Visa services", 2)
	require.NoError(t, err)

	require.Len(t, got.SatisfactionRatings, 2)
	assert.Equal(t, 4.0, got.SatisfactionRatings[0].Rating)
	assert.Equal(t, 2.0, got.SatisfactionRatings[1].Rating)
}

func TestUserRepository_AddServiceCenterRating_UpsertsByCenter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	_, err = repo.AddServiceCenterRating(ctx, "mariam@example.qa", "c1", "Al Sadd Center", 3)
	require.NoError(t, err)
	_, err = repo.AddServiceCenterRating(ctx, "mariam@example.qa", "c2", "Lusail Center", 5)
	require.NoError(t, err)
	got, err := repo.AddServiceCenterRating(ctx, "mariam@example.qa", "c1", "Al Sadd Center", 1)
	require.NoError(t, err)

	require.Len(t, got.ServiceCenterRatings, 2)
	assert.Equal(t, "c1", got.ServiceCenterRatings[0].CenterID)
	assert.Equal(t, 1.0, got.ServiceCenterRatings[0].Rating)
	assert.Equal(t, "c2", got.ServiceCenterRatings[1].CenterID)
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func TestUserRepository_AddAppointment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher(nil)
	var published []events.Event
	dispatcher.Subscribe(events.EventAppointmentScheduled, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})
	repo := newTestUserRepoWithDispatcher(t, persistence.NewMemoryStore(), false, dispatcher)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)

	first, err := repo.AddAppointment(ctx, "mariam@example.qa", domain.AppointmentRequest{Service: "ID renewal", Date: "2024-04-01"})
	require.NoError(t, err)
	second, err := repo.AddAppointment(ctx, "mariam@example.qa", domain.AppointmentRequest{Service: "ID renewal", Date: "2024-04-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)

	got, err := repo.GetUser(ctx, "mariam@example.qa")
	require.NoError(t, err)
	require.Len(t, got.Appointments, 2)
	assert.Equal(t, first, got.Appointments[0].ID)
	assert.Equal(t, domain.AppointmentScheduled, got.Appointments[0].Status)

	require.Len(t, published, 2)
	assert.Equal(t, "mariam@example.qa", published[0].Subject)
}

func TestUserRepository_UpdateAppointmentStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	id, err := repo.AddAppointment(ctx, "mariam@example.qa", domain.AppointmentRequest{Service: "Licensing"})
	require.NoError(t, err)

	got, err := repo.UpdateAppointmentStatus(ctx, "mariam@example.qa", id, domain.AppointmentCancelled)
	require.NoError(t, err)
	assert.Equal(t, id, got.Appointments[0].ID)
	assert.Equal(t, domain.AppointmentCancelled, got.Appointments[0].Status)

	_, err = repo.UpdateAppointmentStatus(ctx, "mariam@example.qa", id, "postponed")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = repo.UpdateAppointmentStatus(ctx, "mariam@example.qa", "missing", domain.AppointmentCompleted)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

func TestUserRepository_AddNotification_InsertsAtHead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	created, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	welcomeID := created.Notifications[0].ID

	n, err := repo.AddNotification(ctx, "mariam@example.qa", NotificationInput{Title: "Poll closed", Message: "Results are in"})
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationInfo, n.Type)

	got, err := repo.GetUser(ctx, "mariam@example.qa")
	require.NoError(t, err)
	require.Len(t, got.Notifications, 2)
	assert.Equal(t, n.ID, got.Notifications[0].ID)
	assert.Equal(t, welcomeID, got.Notifications[1].ID)
}

func TestUserRepository_MarkNotificationAsRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	created, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	id := created.Notifications[0].ID

	got, err := repo.MarkNotificationAsRead(ctx, "mariam@example.qa", id)
	require.NoError(t, err)
	assert.True(t, got.Notifications[0].Read)

	// marking twice leaves it read
	got, err = repo.MarkNotificationAsRead(ctx, "mariam@example.qa", id)
	require.NoError(t, err)
	assert.True(t, got.Notifications[0].Read)

	_, err = repo.MarkNotificationAsRead(ctx, "mariam@example.qa", "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_MarkAllNotificationsAsRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestUserRepo(t, persistence.NewMemoryStore(), false)
	_, err := repo.CreateUser(ctx, testProfile("mariam@example.qa"))
	require.NoError(t, err)
	_, err = repo.AddNotification(ctx, "mariam@example.qa", NotificationInput{Title: "a"})
	require.NoError(t, err)

	got, err := repo.MarkAllNotificationsAsRead(ctx, "mariam@example.qa")
	require.NoError(t, err)
	assert.Zero(t, got.UnreadNotifications())
}
