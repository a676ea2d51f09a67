// Package patients resolves the optional patient allow-list.
//
// The -patients flag accepts either an inline comma-separated list of
// patient identifiers or a path to a CSV file carrying a "Patient ID"
// column. Resolution happens before any network activity so a malformed
// file aborts the run fast.
package patients

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ColumnName is the required header of the patient-identifier column.
const ColumnName = "Patient ID"

// Resolve turns the -patients flag value into an allow-list.
//
// An empty value means no filtering (nil list). A value ending in ".csv"
// is loaded with FromCSV; anything else is split on commas.
func Resolve(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.HasSuffix(strings.ToLower(value), ".csv") {
		return FromCSV(value)
	}
	return fromInline(value), nil
}

// FromCSV loads patient identifiers from the "Patient ID" column of a
// CSV file. The column must exist; blank cells are dropped.
func FromCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read patient file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read patient file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("patient file %s is empty", path)
	}

	column := -1
	for i, name := range rows[0] {
		if strings.TrimSpace(name) == ColumnName {
			column = i
			break
		}
	}
	if column == -1 {
		return nil, fmt.Errorf("patient file %s must contain a %q column", path, ColumnName)
	}

	ids := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if column >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[column])
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func fromInline(value string) []string {
	parts := strings.Split(value, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
