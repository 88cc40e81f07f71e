package modules

import (
	"context"

	"github.com/zentesthq/zentest/internal/models"
)

type Repository interface {
	List(ctx context.Context, appID, projectID string) ([]models.Module, error)
	Upsert(ctx context.Context, appID string, m models.Module) error
	Rename(ctx context.Context, appID, id, name string) error
	Delete(ctx context.Context, appID, id string) error
}
