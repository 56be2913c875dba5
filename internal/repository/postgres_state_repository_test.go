package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
)

func newStateRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresStateRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_state_documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresStateRepository(db, "tutordesk")
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStateRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"key", "document", "updated_at"}).
		AddRow("tutordesk", `{"students":[{"id":"s-1","name":"Lin"}]}`, time.Now())
	mock.ExpectQuery("SELECT key, document, updated_at FROM app_state_documents").
		WithArgs("tutordesk").
		WillReturnRows(rows)

	repo := NewPostgresStateRepository(db, "tutordesk")
	state, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Students, 1)
	assert.Equal(t, "Lin", state.Students[0].Name)
}

func TestPostgresStateRepositoryLoadMissing(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT key, document").
		WithArgs("tutordesk").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresStateRepository(db, "tutordesk")
	_, err := repo.Load(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestPostgresStateRepositorySave(t *testing.T) {
	db, mock, cleanup := newStateRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO app_state_documents").
		WithArgs("tutordesk", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgresStateRepository(db, "tutordesk")
	require.NoError(t, repo.Save(context.Background(), sampleState()))
	require.NoError(t, mock.ExpectationsWereMet())
}
