package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
)

type stateDocumentRow struct {
	Key       string    `db:"key"`
	Document  string    `db:"document"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresStateRepository stores the roster document as a JSONB row keyed by name.
type PostgresStateRepository struct {
	db  *sqlx.DB
	key string
}

// NewPostgresStateRepository constructs the repository.
func NewPostgresStateRepository(db *sqlx.DB, key string) *PostgresStateRepository {
	return &PostgresStateRepository{db: db, key: key}
}

// EnsureSchema creates the documents table when missing.
func (r *PostgresStateRepository) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS app_state_documents (
	key TEXT PRIMARY KEY,
	document JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure app_state_documents: %w", err)
	}
	return nil
}

// Load fetches the document for the configured key.
func (r *PostgresStateRepository) Load(ctx context.Context) (*models.AppState, error) {
	const query = `SELECT key, document, updated_at FROM app_state_documents WHERE key = $1`
	var row stateDocumentRow
	if err := r.db.GetContext(ctx, &row, query, r.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "state document not found")
		}
		return nil, fmt.Errorf("load state document: %w", err)
	}
	return decodeState([]byte(row.Document))
}

// Save upserts the document for the configured key.
func (r *PostgresStateRepository) Save(ctx context.Context, state models.AppState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	const query = `INSERT INTO app_state_documents (key, document, updated_at)
VALUES (:key, :document, :updated_at)
ON CONFLICT (key)
DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	row := stateDocumentRow{Key: r.key, Document: string(data), UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save state document: %w", err)
	}
	return nil
}
