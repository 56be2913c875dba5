package export

import (
	"strings"

	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
)

// Format names a supported output encoding.
type Format string

// Supported formats.
const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into encoded bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	Extension() string
}

// ForFormat returns the renderer for a format name.
func ForFormat(name string) (Renderer, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "unsupported export format: "+name)
	}
}
