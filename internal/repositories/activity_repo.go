package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "guanago/internal/config"
	intdb "guanago/internal/db"
	"guanago/internal/domain/models"
	"guanago/internal/utils"
)

// ActivityRepo writes the audit trail of reservations, quotes and logins to
// MySQL. Every method is a no-op without a database.
type ActivityRepo struct {
	DB *sql.DB
}

func (r ActivityRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ActivityRepo) Enabled() bool {
	return r.db() != nil
}

func (r ActivityRepo) EnsureTable(ctx context.Context) error {
	db := r.db()
	if db == nil {
		return nil
	}
	if intdb.HasTable(ctx, db, "activity_log") {
		// tables created before request tracing lack request_id
		if intdb.HasColumn(ctx, db, "activity_log", "request_id") {
			return nil
		}
		_, err := db.ExecContext(ctx, `ALTER TABLE activity_log ADD COLUMN request_id VARCHAR(64) NULL AFTER id`)
		return err
	}
	ddl := `
CREATE TABLE IF NOT EXISTS activity_log (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	request_id VARCHAR(64) NULL,
	actor VARCHAR(255) NULL,
	action VARCHAR(64) NOT NULL,
	entity VARCHAR(64) NOT NULL,
	entity_id VARCHAR(64) NULL,
	detail VARCHAR(1024) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_entity (entity, entity_id),
	KEY idx_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func (r ActivityRepo) Record(ctx context.Context, a models.Activity) error {
	db := r.db()
	if db == nil {
		return nil
	}
	if strings.TrimSpace(a.Action) == "" || strings.TrimSpace(a.Entity) == "" {
		return fmt.Errorf("action y entity son requeridos")
	}
	detail := utils.TruncateRunes(a.Detail, 1024)
	_, err := db.ExecContext(ctx, `
		INSERT INTO activity_log (request_id, actor, action, entity, entity_id, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, intdb.NullIfEmpty(a.RequestID), intdb.NullIfEmpty(a.Actor), a.Action, a.Entity, intdb.NullIfEmpty(a.EntityID), intdb.NullIfEmpty(detail))
	return err
}

// List returns the latest entries, optionally for one entity type.
func (r ActivityRepo) List(ctx context.Context, entity string, limit int) ([]models.Activity, error) {
	db := r.db()
	if db == nil {
		return []models.Activity{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, COALESCE(request_id,''), COALESCE(actor,''), action, entity,
		       COALESCE(entity_id,''), COALESCE(detail,''), created_at
		FROM activity_log`
	args := []any{}
	if entity != "" {
		query += ` WHERE entity = ?`
		args = append(args, entity)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Actor, &a.Action, &a.Entity, &a.EntityID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
