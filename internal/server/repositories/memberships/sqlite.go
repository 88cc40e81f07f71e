package memberships

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

func (r *SQLiteRepository) ListByUser(ctx context.Context, appID, userID string) ([]models.Membership, error) {
	query :=
		`SELECT project_id, joined_at, role FROM memberships
		 WHERE app_id = $1 AND user_id = $2
		 ORDER BY joined_at
		 `

	rows, err := r.db.QueryContext(ctx, query, appID, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Membership{}
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ProjectID, &m.JoinedAt, &m.Role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Put inserts or refreshes the link. Re-joining a project keeps a single
// row and takes the latest role and joined_at.
func (r *SQLiteRepository) Put(ctx context.Context, appID, userID string, m models.Membership) error {
	query :=
		`INSERT INTO memberships (app_id, user_id, project_id, joined_at, role)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (app_id, user_id, project_id) DO UPDATE
		 SET joined_at = excluded.joined_at, role = excluded.role
		 `

	_, err := r.db.ExecContext(ctx, query, appID, userID, m.ProjectID, m.JoinedAt, m.Role)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, appID, userID, projectID string) error {
	query := `DELETE FROM memberships WHERE app_id = $1 AND user_id = $2 AND project_id = $3`

	res, err := r.db.ExecContext(ctx, query, appID, userID, projectID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
