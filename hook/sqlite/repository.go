package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/marcelsud/webhook-workflow/hook"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

/*
SQLite implementation of hook.Repository

Same layout as the PostgreSQL store: ? placeholders, booleans as INTEGER,
attributes as JSON text. Suited for single-node deployments and tests (":memory:").
*/

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

type Repository struct {
	DB *sqlx.DB
}

type hookRow struct {
	ID               string `db:"id"`
	TypeID           string `db:"type_id"`
	Name             string `db:"name"`
	SortOrder        int    `db:"sort_order"`
	Method           string `db:"method"`
	URL              string `db:"url"`
	Text             string `db:"text"`
	WorkflowType     string `db:"workflow_type"`
	IncludeHeaders   bool   `db:"include_headers"`
	IncludeCookies   bool   `db:"include_cookies"`
	ResponseUsername string `db:"response_username"`
	ResponseIcon     string `db:"response_icon"`
	Attributes       string `db:"attributes"`
}

// NewRepository opens (or creates) the database at path and ensures the schema
func NewRepository(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing pragma: %w", err)
		}
	}

	repo := &Repository{DB: db}
	if err := repo.CreateTable(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// List returns the hooks of a type ordered by sort_order, id
func (r *Repository) List(ctx context.Context, typeID string) ([]hook.Hook, error) {
	var rows []hookRow
	err := r.DB.SelectContext(ctx, &rows, "SELECT * FROM hooks WHERE type_id = ? ORDER BY sort_order, id", typeID)
	if err != nil {
		return nil, fmt.Errorf("selecting hooks: %w", err)
	}

	hooks := make([]hook.Hook, 0, len(rows))
	for _, row := range rows {
		h, err := row.hook()
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}
	return hooks, nil
}

// Get retrieves a hook by ID
func (r *Repository) Get(ctx context.Context, id string) (hook.Hook, error) {
	var row hookRow
	err := r.DB.GetContext(ctx, &row, "SELECT * FROM hooks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return hook.Hook{}, fmt.Errorf("%w: %s", hook.ErrNotFound, id)
	}
	if err != nil {
		return hook.Hook{}, fmt.Errorf("selecting hook: %w", err)
	}
	return row.hook()
}

// Save inserts or replaces a hook definition
func (r *Repository) Save(ctx context.Context, h hook.Hook) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("validating hook: %w", err)
	}

	row, err := newRow(h)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO hooks (id, type_id, name, sort_order, method, url, text, workflow_type,
			include_headers, include_cookies, response_username, response_icon, attributes)
		VALUES (:id, :type_id, :name, :sort_order, :method, :url, :text, :workflow_type,
			:include_headers, :include_cookies, :response_username, :response_icon, :attributes)
		ON CONFLICT (id) DO UPDATE SET
			type_id = excluded.type_id,
			name = excluded.name,
			sort_order = excluded.sort_order,
			method = excluded.method,
			url = excluded.url,
			text = excluded.text,
			workflow_type = excluded.workflow_type,
			include_headers = excluded.include_headers,
			include_cookies = excluded.include_cookies,
			response_username = excluded.response_username,
			response_icon = excluded.response_icon,
			attributes = excluded.attributes
	`
	if _, err := r.DB.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("saving hook: %w", err)
	}
	return nil
}

// Delete removes a hook by ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM hooks WHERE id = ?", id)
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

// Close closes the database
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable creates the hooks table and its ordering index
func (r *Repository) CreateTable(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hooks (
			id TEXT PRIMARY KEY,
			type_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			method TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			workflow_type TEXT NOT NULL,
			include_headers INTEGER NOT NULL DEFAULT 0,
			include_cookies INTEGER NOT NULL DEFAULT 0,
			response_username TEXT NOT NULL DEFAULT '',
			response_icon TEXT NOT NULL DEFAULT '',
			attributes TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS hooks_type_order_idx ON hooks (type_id, sort_order, id)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	return nil
}

func newRow(h hook.Hook) (hookRow, error) {
	attrs := h.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return hookRow{}, fmt.Errorf("marshaling attributes: %w", err)
	}
	return hookRow{
		ID:               h.ID,
		TypeID:           h.TypeID,
		Name:             h.Name,
		SortOrder:        h.Order,
		Method:           h.Method,
		URL:              h.URL,
		Text:             h.Text,
		WorkflowType:     h.WorkflowTypeID,
		IncludeHeaders:   h.Options.IncludeHeaders,
		IncludeCookies:   h.Options.IncludeCookies,
		ResponseUsername: h.ResponseUsername,
		ResponseIcon:     h.ResponseIcon,
		Attributes:       string(b),
	}, nil
}

func (row hookRow) hook() (hook.Hook, error) {
	var attrs map[string]string
	if row.Attributes != "" {
		if err := json.Unmarshal([]byte(row.Attributes), &attrs); err != nil {
			return hook.Hook{}, fmt.Errorf("unmarshaling attributes of hook %s: %w", row.ID, err)
		}
	}
	return hook.Hook{
		ID:               row.ID,
		TypeID:           row.TypeID,
		Name:             row.Name,
		Order:            row.SortOrder,
		Method:           row.Method,
		URL:              row.URL,
		Text:             row.Text,
		WorkflowTypeID:   row.WorkflowType,
		Options:          hook.Options{IncludeHeaders: row.IncludeHeaders, IncludeCookies: row.IncludeCookies},
		ResponseUsername: row.ResponseUsername,
		ResponseIcon:     row.ResponseIcon,
		Attributes:       attrs,
	}, nil
}

var _ hook.Repository = (*Repository)(nil)
