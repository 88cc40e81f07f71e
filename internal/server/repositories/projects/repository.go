package projects

import (
	"context"

	"github.com/zentesthq/zentest/internal/models"
)

type Repository interface {
	List(ctx context.Context, appID string) ([]models.Project, error)
	Upsert(ctx context.Context, appID string, p models.Project) error
	UpdateMeta(ctx context.Context, appID, id, name, color, initial string) error
	Delete(ctx context.Context, appID, id string) error
}
