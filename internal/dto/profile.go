package dto

import (
	"github.com/minhtran-dev/taskdesk/internal/models"
)

// ProfileDTO represents a user account in API responses
type ProfileDTO struct {
	ID            uint64               `json:"id"`
	FullName      string               `json:"full_name"`
	Email         string               `json:"email"`
	Role          models.Role          `json:"role"`
	AccountStatus models.AccountStatus `json:"account_status"`
}

// ToProfileDTO converts a Profile model to ProfileDTO
func ToProfileDTO(profile models.Profile) ProfileDTO {
	return ProfileDTO{
		ID:            profile.ID,
		FullName:      profile.FullName,
		Email:         profile.Email,
		Role:          profile.Role,
		AccountStatus: profile.AccountStatus,
	}
}

// ToProfileDTOs converts a slice of Profile models
func ToProfileDTOs(profiles []models.Profile) []ProfileDTO {
	out := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		out[i] = ToProfileDTO(p)
	}
	return out
}
