package apicases

import (
	"context"

	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/repositories/cases"
)

type Repository interface {
	List(ctx context.Context, appID, projectID string) ([]models.APITestCase, error)
	Upsert(ctx context.Context, appID string, c models.APITestCase) error
	UpdateStatus(ctx context.Context, appID, id string, p cases.StatusPatch) error
	Delete(ctx context.Context, appID, id string) error
}
