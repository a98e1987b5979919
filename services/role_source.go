package services

import (
	"context"

	"github.com/masters-arena/arena-server/access"
	"github.com/masters-arena/arena-server/models"
	"github.com/masters-arena/arena-server/repositories"
)

// profileRoleSource resolves the stored role for the access gate. The
// gate applies the member default itself, so not-found propagates.
type profileRoleSource struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileRoleSource(profileRepo repositories.ProfileRepository) access.RoleSource {
	return &profileRoleSource{profileRepo: profileRepo}
}

func (s *profileRoleSource) RoleOf(ctx context.Context, userID int) (models.Role, error) {
	return s.profileRepo.GetRole(ctx, userID)
}
