package projects

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

// List returns every project of the app. The catalog is public: no
// per-user filtering happens here, visibility is the client's concern.
func (r *SQLiteRepository) List(ctx context.Context, appID string) ([]models.Project, error) {
	query :=
		`SELECT id, name, color, initial, owner FROM projects
		 WHERE app_id = $1
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, appID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Initial, &p.Owner); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, appID string, p models.Project) error {
	query :=
		`INSERT INTO projects (id, app_id, name, color, initial, owner)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (app_id, id) DO UPDATE
		 SET name = excluded.name, color = excluded.color, initial = excluded.initial, owner = excluded.owner
		 `

	_, err := r.db.ExecContext(ctx, query, p.ID, appID, p.Name, p.Color, p.Initial, p.Owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateMeta patches the display fields of a project. Owner is immutable
// through this path.
func (r *SQLiteRepository) UpdateMeta(ctx context.Context, appID, id, name, color, initial string) error {
	query :=
		`UPDATE projects SET name = $1, color = $2, initial = $3
		 WHERE app_id = $4 AND id = $5
		 `

	res, err := r.db.ExecContext(ctx, query, name, color, initial, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes only the project row. Modules and cases under it are
// left in place on purpose.
func (r *SQLiteRepository) Delete(ctx context.Context, appID, id string) error {
	query := `DELETE FROM projects WHERE app_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
