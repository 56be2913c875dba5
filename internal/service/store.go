package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
	"github.com/noah-isme/tutordesk/pkg/jobs"
)

// StateGateway loads and saves the whole roster document.
type StateGateway interface {
	Load(ctx context.Context) (*models.AppState, error)
	Save(ctx context.Context, state models.AppState) error
}

// Change describes a state or selection update delivered to subscribers.
type Change struct {
	Operation string
	// StateChanged is false for selection-only updates.
	StateChanged bool
}

// Selection is the set of "current" identifiers shown by the host UI.
// Empty strings mean nothing is selected.
type Selection struct {
	Section      models.Section
	StudentID    string
	EnrollmentID string
	SessionID    string
	TeacherID    string
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *MetricsService) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithLocation sets the calendar timezone.
func WithLocation(loc *time.Location) StoreOption {
	return func(s *Store) { s.loc = loc }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) { s.now = fn }
}

// WithAutosaveDelay sets the debounce quiet period for saves.
func WithAutosaveDelay(d time.Duration) StoreOption {
	return func(s *Store) { s.autosaveDelay = d }
}

// Store owns the roster document and the UI selections. Mutations happen on a
// single writer; the lock only guards against the autosave goroutine reading a
// snapshot concurrently.
type Store struct {
	mu        sync.RWMutex
	state     models.AppState
	selection Selection

	gateway       StateGateway
	autosave      *jobs.Debouncer
	autosaveDelay time.Duration
	generator     *SessionGenerator
	logger        *zap.Logger
	metrics       *MetricsService
	loc           *time.Location
	newID         func() string
	now           func() time.Time

	subMu       sync.Mutex
	subscribers map[int]func(Change)
	nextSubID   int
}

// NewStore loads the document through gateway, seeding a default one when
// nothing usable is stored. A nil gateway keeps the store purely in memory.
func NewStore(ctx context.Context, gateway StateGateway, opts ...StoreOption) *Store {
	s := &Store{
		gateway:       gateway,
		autosaveDelay: 450 * time.Millisecond,
		loc:           time.Local,
		newID:         uuid.NewString,
		now:           time.Now,
		subscribers:   make(map[int]func(Change)),
		selection:     Selection{Section: models.SectionSchedule},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.generator = NewSessionGenerator(s.loc, s.newID)
	s.autosave = jobs.NewDebouncer("autosave", s.save, jobs.DebounceConfig{
		Delay:  s.autosaveDelay,
		Logger: s.logger,
	})

	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	var loaded *models.AppState
	var err error
	if s.gateway != nil {
		loaded, err = s.gateway.Load(ctx)
	}

	if err == nil && loaded != nil {
		s.state = *loaded
		s.normalizeSelections()
		s.logger.Info("roster loaded",
			zap.Int("students", len(s.state.Students)),
			zap.Int("enrollments", len(s.state.Enrollments)),
			zap.Int("sessions", len(s.state.Sessions)))
		return
	}

	switch {
	case err == nil, errors.Is(err, appErrors.ErrNotFound):
		s.logger.Info("no saved roster, seeding defaults")
	default:
		s.logger.Warn("failed to load roster, seeding defaults", zap.Error(err))
	}
	s.state = SeedDefaultState(s.loc, s.newID)
	s.normalizeSelections()
	if err := s.save(ctx); err != nil {
		s.logger.Warn("failed to save seeded roster", zap.Error(err))
	}
}

// normalizeSelections fills every empty selection with the first entity.
func (s *Store) normalizeSelections() {
	if s.selection.TeacherID == "" && len(s.state.Teachers) > 0 {
		s.selection.TeacherID = s.state.Teachers[0].ID
	}
	if s.selection.StudentID == "" && len(s.state.Students) > 0 {
		s.selection.StudentID = s.state.Students[0].ID
	}
	if s.selection.EnrollmentID == "" && len(s.state.Enrollments) > 0 {
		s.selection.EnrollmentID = s.state.Enrollments[0].ID
	}
	if s.selection.SessionID == "" && len(s.state.Sessions) > 0 {
		s.selection.SessionID = s.state.Sessions[0].ID
	}
}

// save writes the snapshot current at call time. Failures are logged by the
// debouncer and otherwise ignored; memory stays authoritative.
func (s *Store) save(ctx context.Context) error {
	if s.gateway == nil {
		return nil
	}
	err := s.gateway.Save(ctx, s.Snapshot())
	s.metrics.ObserveAutosave(err)
	return err
}

// Close writes any pending autosave and stops further saves.
func (s *Store) Close(ctx context.Context) {
	s.autosave.Flush(ctx)
	s.autosave.Stop()
}

// Snapshot returns a deep copy of the document.
func (s *Store) Snapshot() models.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Selection returns the current selections.
func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Subscribe registers fn for change notifications and returns an unsubscribe func.
// Callbacks run synchronously on the mutating goroutine after the lock is released.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify(change Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

// mutate applies fn under the write lock, then schedules an autosave and notifies.
func (s *Store) mutate(operation string, fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()

	s.metrics.ObserveMutation(operation)
	s.autosave.Trigger()
	s.notify(Change{Operation: operation, StateChanged: true})
}

// selectOnly applies a selection change that does not touch the document.
func (s *Store) selectOnly(operation string, fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify(Change{Operation: operation})
}
