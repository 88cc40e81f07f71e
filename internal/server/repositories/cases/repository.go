package cases

import (
	"context"

	"github.com/zentesthq/zentest/internal/models"
)

// StatusPatch is the partial update issued when only a case verdict
// changed. The audit trio always travels with the status.
type StatusPatch struct {
	Status            models.Status
	LastUpdatedBy     string
	LastUpdatedByName string
	Timestamp         int64
}

type Repository interface {
	List(ctx context.Context, appID, projectID string) ([]models.TestCase, error)
	Upsert(ctx context.Context, appID string, c models.TestCase) error
	UpdateStatus(ctx context.Context, appID, id string, p StatusPatch) error
	Delete(ctx context.Context, appID, id string) error
}
