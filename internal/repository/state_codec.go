package repository

import (
	"encoding/json"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
)

// encodeState renders the document with indentation so diffs stay readable.
// Field order follows the struct declarations, which keeps output stable.
func encodeState(state models.AppState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "encode app state")
	}
	return data, nil
}

// decodeState tolerates unknown keys; missing settings keep their defaults.
func decodeState(data []byte) (*models.AppState, error) {
	state := models.AppState{Settings: models.DefaultSettings()}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCorruptDocument.Code, appErrors.ErrCorruptDocument.Message)
	}
	return &state, nil
}
