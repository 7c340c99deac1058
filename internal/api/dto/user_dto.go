package dto

import (
	"time"

	"github.com/spec-kit/sharek-engine/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	Phone        string `json:"phone"`
	Nationality  string `json:"nationality"`
	DateOfBirth  string `json:"dateOfBirth"`
	Address      string `json:"address"`
	ProfilePhoto string `json:"profilePhoto"`
}

// Profile converts the request into a domain profile.
func (r UserRegisterRequest) Profile() domain.UserProfile {
	return domain.UserProfile{
		Email:        r.Email,
		Name:         r.Name,
		Password:     r.Password,
		Phone:        r.Phone,
		Nationality:  r.Nationality,
		DateOfBirth:  r.DateOfBirth,
		Address:      r.Address,
		ProfilePhoto: r.ProfilePhoto,
	}
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SatisfactionRatingRequest payload for a service rating.
type SatisfactionRatingRequest struct {
	Service string  `json:"service" validate:"required"`
	Rating  float64 `json:"rating"`
}

// ServiceCenterRatingRequest payload for a center rating.
type ServiceCenterRatingRequest struct {
	CenterID   string  `json:"centerId" validate:"required"`
	CenterName string  `json:"centerName" validate:"required"`
	Rating     float64 `json:"rating"`
}

// AppointmentRequest payload for booking an appointment.
type AppointmentRequest struct {
	Service string `json:"service" validate:"required"`
	Date    string `json:"date" validate:"required"`
}

// NotificationRequest payload for a new inbox entry.
type NotificationRequest struct {
	Title   string                  `json:"title" validate:"required"`
	Message string                  `json:"message"`
	Type    domain.NotificationType `json:"type" validate:"omitempty,oneof=info success warning"`
}

// AppointmentStatusRequest payload for a status change.
type AppointmentStatusRequest struct {
	Status domain.AppointmentStatus `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

// ProfileResponse is a profile without its stored password.
type ProfileResponse struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Nationality  string    `json:"nationality,omitempty"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"`
	Address      string    `json:"address,omitempty"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Created      time.Time `json:"created"`
}

// UserResponse is the aggregate as served to the UI layer.
type UserResponse struct {
	Profile              ProfileResponse              `json:"profile"`
	Settings             domain.UserSettings          `json:"settings"`
	FeedbackCount        int                          `json:"feedbackCount"`
	SatisfactionRatings  []domain.SatisfactionRating  `json:"satisfactionRatings"`
	ServiceCenterRatings []domain.ServiceCenterRating `json:"serviceCenterRatings"`
	Appointments         []domain.Appointment         `json:"appointments"`
	Notifications        []domain.Notification        `json:"notifications"`
	UnreadNotifications  int                          `json:"unreadNotifications"`
}

// NewUserResponse strips the password from user.
func NewUserResponse(user *domain.UserData) UserResponse {
	p := user.Profile
	return UserResponse{
		Profile: ProfileResponse{
			Email:        p.Email,
			Name:         p.Name,
			Phone:        p.Phone,
			Nationality:  p.Nationality,
			DateOfBirth:  p.DateOfBirth,
			Address:      p.Address,
			ProfilePhoto: p.ProfilePhoto,
			Created:      p.Created,
		},
		Settings:             user.Settings,
		FeedbackCount:        user.FeedbackCount,
		SatisfactionRatings:  user.SatisfactionRatings,
		ServiceCenterRatings: user.ServiceCenterRatings,
		Appointments:         user.Appointments,
		Notifications:        user.Notifications,
		UnreadNotifications:  user.UnreadNotifications(),
	}
}
