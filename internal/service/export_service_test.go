package service

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
	"github.com/noah-isme/tutordesk/pkg/storage"
)

type stateStub struct {
	state models.AppState
}

func (s stateStub) Snapshot() models.AppState { return s.state.Clone() }

type failingStorage struct{}

func (failingStorage) Save(string, []byte) (string, error) { return "", errors.New("read-only") }

func (failingStorage) CleanupOlderThan(time.Duration) ([]string, error) { return nil, nil }

func TestExportServiceEnrollmentSchedule(t *testing.T) {
	svc := NewExportService(stateStub{state: *rosterState()}, failingStorage{}, time.UTC, zap.NewNop())

	dataset, err := svc.EnrollmentSchedule("e-a")
	require.NoError(t, err)

	assert.Equal(t, "A", dataset.Title)
	require.Len(t, dataset.Rows, 2)
	first := dataset.Rows[0]
	assert.Equal(t, "2026-03-02", first["date"])
	assert.Equal(t, "Mon", first["weekday"])
	assert.Equal(t, "18:30–20:30", first["time"])
	assert.Equal(t, "Lin", first["student"])
	assert.Equal(t, "A", first["enrollment"])
	assert.Equal(t, "attended", first["status"])
	assert.Equal(t, "2026-03-05", dataset.Rows[1]["date"])
}

func TestExportServiceStudentSchedule(t *testing.T) {
	svc := NewExportService(stateStub{state: *rosterState()}, failingStorage{}, time.UTC, nil)

	dataset, err := svc.StudentSchedule("s-2")
	require.NoError(t, err)
	assert.Equal(t, "Mei", dataset.Title)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "", dataset.Rows[0]["enrollment"], "session without enrollment")
	assert.Equal(t, "D", dataset.Rows[1]["enrollment"])
}

func TestExportServiceUnknownEntities(t *testing.T) {
	svc := NewExportService(stateStub{state: *rosterState()}, failingStorage{}, time.UTC, nil)

	_, err := svc.EnrollmentSchedule("missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.StudentSchedule("missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExportServiceWriteCSV(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewExportService(stateStub{state: *rosterState()}, store, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2026, time.March, 9, 8, 15, 0, 0, time.UTC) }
	svc.newID = func() string { return "0f3a9c1e-7b2d-4c55-9e01-2a6b8d4f0c13" }

	dataset, err := svc.EnrollmentSchedule("e-a")
	require.NoError(t, err)
	name, err := svc.Write(context.Background(), dataset, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "schedule-20260309-081500-0f3a9c1e.csv", name)

	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, scheduleHeaders, records[0])
	assert.Equal(t, "2026-03-02", records[1][0])
}

func TestExportServiceWritePDF(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewExportService(stateStub{state: *rosterState()}, store, time.UTC, nil)

	dataset, err := svc.StudentSchedule("s-1")
	require.NoError(t, err)
	name, err := svc.Write(context.Background(), dataset, "pdf")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportServiceWriteErrors(t *testing.T) {
	svc := NewExportService(stateStub{state: *rosterState()}, failingStorage{}, time.UTC, nil)
	dataset, err := svc.EnrollmentSchedule("e-a")
	require.NoError(t, err)

	_, err = svc.Write(context.Background(), dataset, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)

	_, err = svc.Write(context.Background(), dataset, "csv")
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Write(ctx, dataset, "csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportServiceWritesInSameSecondDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewExportService(stateStub{state: *rosterState()}, store, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2026, time.March, 9, 8, 15, 0, 0, time.UTC) }
	svc.newID = seqIDs("x")

	enrollment, err := svc.EnrollmentSchedule("e-a")
	require.NoError(t, err)
	student, err := svc.StudentSchedule("s-2")
	require.NoError(t, err)

	first, err := svc.Write(context.Background(), enrollment, "csv")
	require.NoError(t, err)
	second, err := svc.Write(context.Background(), student, "csv")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
