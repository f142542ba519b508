package document

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingColumn indicates a CSV header without a required column.
var ErrMissingColumn = errors.New("missing column")

// ReadCSV reads regions from CSV. The first row is a header naming the
// columns, matched case-insensitively: start and end are required, label
// and id are optional. Bounds are kept as written.
func ReadCSV(r io.Reader, source string) ([]RegionSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, csvError(source, err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"start", "end"} {
		if _, ok := columns[required]; !ok {
			return nil, &ParseError{
				Path:    source,
				Line:    1,
				Message: fmt.Sprintf("column %q not found; available columns: %v", required, header),
				Err:     ErrMissingColumn,
			}
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var regions []RegionSpec
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		regions = append(regions, RegionSpec{
			ID:    field(record, "id"),
			Start: field(record, "start"),
			End:   field(record, "end"),
			Label: field(record, "label"),
		})
	}
	return regions, nil
}

func csvError(source string, err error) error {
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		perr.Line = pe.Line
		perr.Message = pe.Err.Error()
	}
	return perr
}

func (l *Loader) loadCSV(path string) ([]RegionSpec, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading regions %s: %w", path, err)
	}
	return ReadCSV(bytes.NewReader(data), path)
}
