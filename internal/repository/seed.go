package repository

import "github.com/spec-kit/sharek-engine/internal/domain"

// DemoAccounts returns the fixed accounts written into an empty users
// collection. Their credentials are documented test credentials.
func DemoAccounts() []domain.UserProfile {
	return []domain.UserProfile{
		{
			Email:       "demo@sharek.gov.qa",
			Name:        "Demo User",
			Password:    "demo123",
			Phone:       "+974 5555 0101",
			Nationality: "Qatar",
			Address:     "Doha",
		},
		{
			Email:       "citizen@sharek.gov.qa",
			Name:        "Citizen Tester",
			Password:    "citizen123",
			Phone:       "+974 5555 0102",
			Nationality: "Qatar",
			Address:     "Al Rayyan",
		},
		{
			Email:       "admin@sharek.gov.qa",
			Name:        "Sharek Admin",
			Password:    "admin123",
			Phone:       "+974 5555 0103",
			Nationality: "Qatar",
			Address:     "Lusail",
		},
	}
}
