package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"cacases/internal/converter"
	apperrors "cacases/internal/errors"
)

// Source is one named record stream.
type Source struct {
	Name   string
	Reader converter.RecordReader
}

// NewCSVReader configures a csv.Reader for case files. Field counts are left
// unchecked so short records reach the converter as conversion errors.
func NewCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// CSVSource wraps r as a Source named name.
func CSVSource(name string, r io.Reader) Source {
	return Source{Name: name, Reader: NewCSVReader(r)}
}

// OpenFiles opens every path as a CSV source. The returned closer releases
// all of them; on error nothing is left open.
func OpenFiles(paths ...string) ([]Source, func() error, error) {
	var files []*os.File
	closeAll := func() error {
		var first error
		for _, f := range files {
			if err := f.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, apperrors.NewParsingError("open case file "+path, err).
				WithContext("source", path)
		}
		files = append(files, f)
		sources = append(sources, CSVSource(filepath.Base(path), f))
	}
	return sources, closeAll, nil
}
