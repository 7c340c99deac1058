package domain

import "time"

// Language is the user interface language preference.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// Theme is the user interface colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UserProfile holds identity attributes. Email is the primary key.
type UserProfile struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Password     string    `json:"password"`
	Phone        string    `json:"phone,omitempty"`
	Nationality  string    `json:"nationality,omitempty"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"`
	Address      string    `json:"address,omitempty"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Created      time.Time `json:"created"`
}

// ProfilePatch carries the fields of a profile merge-update. Nil fields are left untouched.
type ProfilePatch struct {
	Name         *string `json:"name,omitempty"`
	Password     *string `json:"password,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Nationality  *string `json:"nationality,omitempty"`
	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
	Address      *string `json:"address,omitempty"`
	ProfilePhoto *string `json:"profilePhoto,omitempty"`
}

// Apply merges the non-nil fields of p into profile.
func (p ProfilePatch) Apply(profile UserProfile) UserProfile {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Password != nil {
		profile.Password = *p.Password
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.Nationality != nil {
		profile.Nationality = *p.Nationality
	}
	if p.DateOfBirth != nil {
		profile.DateOfBirth = *p.DateOfBirth
	}
	if p.Address != nil {
		profile.Address = *p.Address
	}
	if p.ProfilePhoto != nil {
		profile.ProfilePhoto = *p.ProfilePhoto
	}
	return profile
}

// UserSettings holds notification and display preferences.
type UserSettings struct {
	Notifications      bool     `json:"notifications"`
	EmailNotifications bool     `json:"emailNotifications"`
	SMSNotifications   bool     `json:"smsNotifications"`
	Language           Language `json:"language"`
	Theme              Theme    `json:"theme"`
}

// DefaultUserSettings returns the settings every new account starts with.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Notifications:      true,
		EmailNotifications: true,
		SMSNotifications:   true,
		Language:           LanguageEnglish,
		Theme:              ThemeLight,
	}
}

// SettingsPatch carries the fields of a settings merge-update.
type SettingsPatch struct {
	Notifications      *bool     `json:"notifications,omitempty"`
	EmailNotifications *bool     `json:"emailNotifications,omitempty"`
	SMSNotifications   *bool     `json:"smsNotifications,omitempty"`
	Language           *Language `json:"language,omitempty"`
	Theme              *Theme    `json:"theme,omitempty"`
}

// Validate rejects unknown language or theme values.
func (p SettingsPatch) Validate() error {
	if p.Language != nil && *p.Language != LanguageEnglish && *p.Language != LanguageArabic {
		return NewValidationError("language", "must be en or ar")
	}
	if p.Theme != nil && *p.Theme != ThemeLight && *p.Theme != ThemeDark {
		return NewValidationError("theme", "must be light or dark")
	}
	return nil
}

// Apply merges the non-nil fields of p into settings.
func (p SettingsPatch) Apply(settings UserSettings) UserSettings {
	if p.Notifications != nil {
		settings.Notifications = *p.Notifications
	}
	if p.EmailNotifications != nil {
		settings.EmailNotifications = *p.EmailNotifications
	}
	if p.SMSNotifications != nil {
		settings.SMSNotifications = *p.SMSNotifications
	}
	if p.Language != nil {
		settings.Language = *p.Language
	}
	if p.Theme != nil {
		settings.Theme = *p.Theme
	}
	return settings
}

// SatisfactionRating is an append-only service rating; repeats are allowed.
type SatisfactionRating struct {
	Service string    `json:"service"`
	Rating  float64   `json:"rating"`
	Date    time.Time `json:"date"`
}

// ServiceCenterRating is unique per center for a given user.
type ServiceCenterRating struct {
	CenterID   string    `json:"centerId"`
	CenterName string    `json:"centerName"`
	Rating     float64   `json:"rating"`
	Date       time.Time `json:"date"`
}

// AppointmentStatus enumerates appointment lifecycle states.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a booked service visit. ID never changes after creation.
type Appointment struct {
	ID      string            `json:"id"`
	Service string            `json:"service"`
	Date    string            `json:"date"`
	Status  AppointmentStatus `json:"status"`
}

// AppointmentRequest is the caller-supplied part of a new appointment.
type AppointmentRequest struct {
	Service string `json:"service"`
	Date    string `json:"date"`
}

// NotificationType classifies a notification for presentation.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

// Notification is a message in the user's inbox, newest first.
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    time.Time        `json:"date"`
	Read    bool             `json:"read"`
	Type    NotificationType `json:"type"`
}

// UserData is the aggregate root persisted per email.
type UserData struct {
	Profile              UserProfile           `json:"profile"`
	Settings             UserSettings          `json:"settings"`
	FeedbackCount        int                   `json:"feedbackCount"`
	SatisfactionRatings  []SatisfactionRating  `json:"satisfactionRatings"`
	ServiceCenterRatings []ServiceCenterRating `json:"serviceCenterRatings"`
	Appointments         []Appointment         `json:"appointments"`
	Notifications        []Notification        `json:"notifications"`
}

// Clone returns a deep copy so callers cannot mutate repository state.
func (u UserData) Clone() UserData {
	out := u
	out.SatisfactionRatings = append([]SatisfactionRating{}, u.SatisfactionRatings...)
	out.ServiceCenterRatings = append([]ServiceCenterRating{}, u.ServiceCenterRatings...)
	out.Appointments = append([]Appointment{}, u.Appointments...)
	out.Notifications = append([]Notification{}, u.Notifications...)
	return out
}

// UnreadNotifications counts notifications not yet marked read.
func (u UserData) UnreadNotifications() int {
	count := 0
	for _, n := range u.Notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
