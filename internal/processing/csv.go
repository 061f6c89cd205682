package processing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadErrorKind classifies why a source table could not be loaded
type LoadErrorKind string

const (
	LoadNotFound LoadErrorKind = "not_found"
	LoadParse    LoadErrorKind = "parse"
	LoadIO       LoadErrorKind = "io"
)

// LoadError describes a source file that is absent, unreadable or malformed.
// Callers degrade to an empty table.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case LoadParse:
		return fmt.Sprintf("problem reading the CSV file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("unexpected error reading %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsTransient returns false; a missing or broken file does not fix itself
func (e *LoadError) IsTransient() bool {
	return false
}

// LoadTable reads a comma-delimited file with a header row.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Kind: LoadNotFound, Path: path, Err: err}
		}
		return nil, &LoadError{Kind: LoadIO, Path: path, Err: err}
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Kind: LoadIO, Path: path, Err: err}
	}
	return t, nil
}

// ReadTable parses CSV from r. Short rows are padded with empty cells; rows
// longer than the header are rejected.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &LoadError{Kind: LoadParse, Err: errors.New("no columns to parse from file")}
	}
	if err != nil {
		return nil, &LoadError{Kind: LoadParse, Err: err}
	}

	t := NewTable(header...)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &LoadError{Kind: LoadParse, Err: err}
		}
		if len(record) > len(header) {
			return nil, &LoadError{
				Kind: LoadParse,
				Err:  fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record)),
			}
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// SaveTable writes t to path, creating parent directories.
func SaveTable(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteTable(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTable writes the header and every row as CSV.
func WriteTable(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
