package memberships

import (
	"context"

	"github.com/zentesthq/zentest/internal/models"
)

type Repository interface {
	ListByUser(ctx context.Context, appID, userID string) ([]models.Membership, error)
	Put(ctx context.Context, appID, userID string, m models.Membership) error
	Delete(ctx context.Context, appID, userID, projectID string) error
}
