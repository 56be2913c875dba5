package repository

import (
	"context"
	"errors"
	"os"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
	"github.com/noah-isme/tutordesk/pkg/storage"
)

// FileStateRepository keeps the roster document as a JSON file on local disk.
type FileStateRepository struct {
	storage  *storage.LocalStorage
	filename string
}

// NewFileStateRepository constructs the repository.
func NewFileStateRepository(store *storage.LocalStorage, filename string) *FileStateRepository {
	if filename == "" {
		filename = "data.json"
	}
	return &FileStateRepository{storage: store, filename: filename}
}

// Load reads the stored document. A missing file returns ErrNotFound.
func (r *FileStateRepository) Load(ctx context.Context) (*models.AppState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.storage.Read(r.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "state document not found")
		}
		return nil, err
	}
	return decodeState(data)
}

// Save replaces the document atomically.
func (r *FileStateRepository) Save(ctx context.Context, state models.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	return r.storage.SaveAtomic(r.filename, data)
}
