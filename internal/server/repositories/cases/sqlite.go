package cases

import (
	"context"
	"encoding/json"
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

func (r *SQLiteRepository) List(ctx context.Context, appID, projectID string) ([]models.TestCase, error) {
	query :=
		`SELECT id, project_id, title, module, priority, status, steps, expected, script,
		        has_automation, round, timestamp, last_updated_by, last_updated_by_name
		 FROM test_cases
		 WHERE app_id = $1 AND project_id = $2
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, appID, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.TestCase{}
	for rows.Next() {
		var c models.TestCase
		var steps string
		err := rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.Module, &c.Priority, &c.Status,
			&steps, &c.Expected, &c.Script, &c.HasAutomation, &c.Round,
			&c.Timestamp, &c.LastUpdatedBy, &c.LastUpdatedByName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &c.Steps); err != nil {
			return nil, fmt.Errorf("decoding steps of %s: %w", c.ID, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, appID string, c models.TestCase) error {
	if c.Steps == nil {
		c.Steps = []string{}
	}
	steps, err := json.Marshal(c.Steps)
	if err != nil {
		return fmt.Errorf("encoding steps: %w", err)
	}

	query :=
		`INSERT INTO test_cases (id, app_id, project_id, title, module, priority, status, steps,
		                         expected, script, has_automation, round, timestamp,
		                         last_updated_by, last_updated_by_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (app_id, id) DO UPDATE
		 SET project_id = excluded.project_id, title = excluded.title, module = excluded.module,
		     priority = excluded.priority, status = excluded.status, steps = excluded.steps,
		     expected = excluded.expected, script = excluded.script,
		     has_automation = excluded.has_automation, round = excluded.round,
		     timestamp = excluded.timestamp, last_updated_by = excluded.last_updated_by,
		     last_updated_by_name = excluded.last_updated_by_name
		 `

	_, err = r.db.ExecContext(ctx, query, c.ID, appID, c.ProjectID, c.Title, c.Module,
		c.Priority, c.Status, string(steps), c.Expected, c.Script, c.HasAutomation,
		c.Round, c.Timestamp, c.LastUpdatedBy, c.LastUpdatedByName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, appID, id string, p StatusPatch) error {
	query :=
		`UPDATE test_cases
		 SET status = $1, last_updated_by = $2, last_updated_by_name = $3, timestamp = $4
		 WHERE app_id = $5 AND id = $6
		 `

	res, err := r.db.ExecContext(ctx, query, p.Status, p.LastUpdatedBy, p.LastUpdatedByName, p.Timestamp, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, appID, id string) error {
	query := `DELETE FROM test_cases WHERE app_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
