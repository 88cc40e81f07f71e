package modules

import (
	"context"
	"fmt"

	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/dbx"
	"github.com/zentesthq/zentest/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context, appID, projectID string) ([]models.Module, error) {
	query :=
		`SELECT id, project_id, name FROM modules
		 WHERE app_id = $1 AND project_id = $2
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, appID, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Module{}
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, appID string, m models.Module) error {
	query :=
		`INSERT INTO modules (id, app_id, project_id, name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (app_id, id) DO UPDATE
		 SET project_id = excluded.project_id, name = excluded.name
		 `

	_, err := r.db.ExecContext(ctx, query, m.ID, appID, m.ProjectID, m.Name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Rename changes the module's display name only. Cases carrying the old
// name keep it; the label on a case is a snapshot, not a reference.
func (r *SQLiteRepository) Rename(ctx context.Context, appID, id, name string) error {
	query := `UPDATE modules SET name = $1 WHERE app_id = $2 AND id = $3`

	res, err := r.db.ExecContext(ctx, query, name, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, appID, id string) error {
	query := `DELETE FROM modules WHERE app_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
