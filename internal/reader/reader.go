// Package reader turns uploaded survey files into the tabular shape the
// traverse normalizer consumes.
package reader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"traverse-api/internal/models"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("reader: unsupported file format")

// Read picks a reader from the file name's extension.
func Read(filename string, r io.Reader) (models.Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".txt":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".dxf":
		return ReadDXF(r)
	default:
		return models.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
