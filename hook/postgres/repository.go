package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/webhook-workflow/hook"
)

/*
PostgreSQL implementation of hook.Repository

Hooks live in a single table indexed by (type_id, sort_order, id) so
List is one ordered range scan. Attributes are stored as JSONB.
*/

const selectColumns = `id, type_id, name, sort_order, method, url, text, workflow_type,
		include_headers, include_cookies, response_username, response_icon, attributes`

type Repository struct {
	DB *sql.DB
}

// NewRepository creates a PostgreSQL repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a PostgreSQL repository with a custom pool.
// Zero values keep the driver defaults.
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// List returns the hooks of a type ordered by sort_order, id
func (r *Repository) List(ctx context.Context, typeID string) ([]hook.Hook, error) {
	query := "SELECT " + selectColumns + " FROM hooks WHERE type_id = $1 ORDER BY sort_order, id"

	rows, err := r.DB.QueryContext(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("selecting hooks: %w", err)
	}
	defer rows.Close()

	hooks := make([]hook.Hook, 0)
	for rows.Next() {
		h, err := scanHook(rows)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hooks: %w", err)
	}

	return hooks, nil
}

// Get retrieves a hook by ID
func (r *Repository) Get(ctx context.Context, id string) (hook.Hook, error) {
	query := "SELECT " + selectColumns + " FROM hooks WHERE id = $1"

	h, err := scanHook(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return hook.Hook{}, fmt.Errorf("%w: %s", hook.ErrNotFound, id)
	}
	if err != nil {
		return hook.Hook{}, err
	}
	return h, nil
}

// Save inserts or replaces a hook definition
func (r *Repository) Save(ctx context.Context, h hook.Hook) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("validating hook: %w", err)
	}

	attrs, err := marshalAttributes(h.Attributes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO hooks (id, type_id, name, sort_order, method, url, text, workflow_type,
			include_headers, include_cookies, response_username, response_icon, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			type_id = EXCLUDED.type_id,
			name = EXCLUDED.name,
			sort_order = EXCLUDED.sort_order,
			method = EXCLUDED.method,
			url = EXCLUDED.url,
			text = EXCLUDED.text,
			workflow_type = EXCLUDED.workflow_type,
			include_headers = EXCLUDED.include_headers,
			include_cookies = EXCLUDED.include_cookies,
			response_username = EXCLUDED.response_username,
			response_icon = EXCLUDED.response_icon,
			attributes = EXCLUDED.attributes
	`

	_, err = r.DB.ExecContext(ctx, query,
		h.ID, h.TypeID, h.Name, h.Order, h.Method, h.URL, h.Text, h.WorkflowTypeID,
		h.Options.IncludeHeaders, h.Options.IncludeCookies, h.ResponseUsername, h.ResponseIcon, string(attrs),
	)
	if err != nil {
		return fmt.Errorf("saving hook: %w", err)
	}
	return nil
}

// Delete removes a hook by ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM hooks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting hook: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", hook.ErrNotFound, id)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable creates the hooks table and its ordering index
func (r *Repository) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS hooks (
			id TEXT PRIMARY KEY,
			type_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			method TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			workflow_type TEXT NOT NULL,
			include_headers BOOLEAN NOT NULL DEFAULT FALSE,
			include_cookies BOOLEAN NOT NULL DEFAULT FALSE,
			response_username TEXT NOT NULL DEFAULT '',
			response_icon TEXT NOT NULL DEFAULT '',
			attributes JSONB NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS hooks_type_order_idx ON hooks (type_id, sort_order, id);
	`

	if _, err := r.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

// DropTable removes the hooks table
func (r *Repository) DropTable(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, "DROP TABLE IF EXISTS hooks CASCADE"); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHook(s scanner) (hook.Hook, error) {
	var h hook.Hook
	var attrs []byte
	err := s.Scan(
		&h.ID, &h.TypeID, &h.Name, &h.Order, &h.Method, &h.URL, &h.Text, &h.WorkflowTypeID,
		&h.Options.IncludeHeaders, &h.Options.IncludeCookies, &h.ResponseUsername, &h.ResponseIcon, &attrs,
	)
	if err == sql.ErrNoRows {
		return hook.Hook{}, err
	}
	if err != nil {
		return hook.Hook{}, fmt.Errorf("scanning hook: %w", err)
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &h.Attributes); err != nil {
			return hook.Hook{}, fmt.Errorf("unmarshaling attributes of hook %s: %w", h.ID, err)
		}
	}
	return h, nil
}

func marshalAttributes(attrs map[string]string) ([]byte, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshaling attributes: %w", err)
	}
	return b, nil
}

var _ hook.Repository = (*Repository)(nil)
