package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/fields"
)

// readRows reads a headered CSV into rows keyed by lowercased header names.
// Blank lines are skipped by encoding/csv.
func readRows(r io.Reader) ([]fields.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	cr.FieldsPerRecord = len(header)

	var rows []fields.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		row := make(fields.Row, len(header))
		for i, h := range header {
			row[h] = rec[i]
		}
		row[lineKey] = line
		rows = append(rows, row)
	}
	return rows, nil
}

// lineKey carries the source line number alongside the parsed columns.
const lineKey = "__line"

func lineOf(row fields.Row) int {
	n, _ := row[lineKey].(int)
	return n
}

// rowError prefixes err with the CSV line number.
func rowError(row fields.Row, err error) error {
	return fmt.Errorf("row %d: %w", lineOf(row), err)
}

func requireString(row fields.Row, keys fields.Keys) (string, error) {
	s, ok := fields.PickString(row, keys)
	if !ok {
		return "", fmt.Errorf("missing %s", keys[0])
	}
	return s, nil
}

func requireDay(row fields.Row, keys fields.Keys) (time.Time, error) {
	s, err := requireString(row, keys)
	if err != nil {
		return time.Time{}, err
	}
	d, err := calendar.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

func requireAmount(row fields.Row, keys fields.Keys) (decimal.Decimal, error) {
	s, err := requireString(row, keys)
	if err != nil {
		return decimal.Zero, err
	}
	return parseAmount(s)
}

// optionalAmount returns zero for a blank cell.
func optionalAmount(row fields.Row, keys fields.Keys) (decimal.Decimal, error) {
	s, ok := fields.PickString(row, keys)
	if !ok {
		return decimal.Zero, nil
	}
	return parseAmount(s)
}

// parseAmount accepts "1250000", "1250000.50", "1.250.000" and "-Rp50.000"
// style input. A single dot followed by exactly three digits is a thousands
// separator, so amounts with three decimal places are not representable.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	sign := ""
	if rest, ok := strings.CutPrefix(clean, "-"); ok {
		sign, clean = "-", strings.TrimSpace(rest)
	}
	clean = strings.TrimSpace(strings.TrimPrefix(clean, "Rp"))
	clean = strings.ReplaceAll(clean, ",", "")
	if n := strings.Count(clean, "."); n > 1 || n == 1 && len(clean)-strings.IndexByte(clean, '.') == 4 {
		clean = strings.ReplaceAll(clean, ".", "")
	}
	clean = sign + clean
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

func optionalTime(row fields.Row, keys fields.Keys) time.Time {
	t, _ := fields.PickDate(row, keys)
	return t
}
