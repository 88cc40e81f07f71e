package apicases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/dbx"
	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/repositories/cases"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context, appID, projectID string) ([]models.APITestCase, error) {
	query :=
		`SELECT id, project_id, title, module, priority, status, method, url, headers, body,
		        expected_status, expected_body, round, timestamp, last_updated_by, last_updated_by_name
		 FROM api_test_cases
		 WHERE app_id = $1 AND project_id = $2
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, appID, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.APITestCase{}
	for rows.Next() {
		var c models.APITestCase
		var headers string
		err := rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.Module, &c.Priority, &c.Status,
			&c.Method, &c.URL, &headers, &c.Body, &c.ExpectedStatus, &c.ExpectedBody,
			&c.Round, &c.Timestamp, &c.LastUpdatedBy, &c.LastUpdatedByName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal([]byte(headers), &c.Headers); err != nil {
			return nil, fmt.Errorf("decoding headers of %s: %w", c.ID, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, appID string, c models.APITestCase) error {
	if c.Headers == nil {
		c.Headers = []models.Header{}
	}
	headers, err := json.Marshal(c.Headers)
	if err != nil {
		return fmt.Errorf("encoding headers: %w", err)
	}

	query :=
		`INSERT INTO api_test_cases (id, app_id, project_id, title, module, priority, status,
		                             method, url, headers, body, expected_status, expected_body,
		                             round, timestamp, last_updated_by, last_updated_by_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (app_id, id) DO UPDATE
		 SET project_id = excluded.project_id, title = excluded.title, module = excluded.module,
		     priority = excluded.priority, status = excluded.status, method = excluded.method,
		     url = excluded.url, headers = excluded.headers, body = excluded.body,
		     expected_status = excluded.expected_status, expected_body = excluded.expected_body,
		     round = excluded.round, timestamp = excluded.timestamp,
		     last_updated_by = excluded.last_updated_by,
		     last_updated_by_name = excluded.last_updated_by_name
		 `

	_, err = r.db.ExecContext(ctx, query, c.ID, appID, c.ProjectID, c.Title, c.Module,
		c.Priority, c.Status, c.Method, c.URL, string(headers), c.Body,
		c.ExpectedStatus, c.ExpectedBody, c.Round, c.Timestamp,
		c.LastUpdatedBy, c.LastUpdatedByName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, appID, id string, p cases.StatusPatch) error {
	query :=
		`UPDATE api_test_cases
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
	query := `DELETE FROM api_test_cases WHERE app_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, appID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
