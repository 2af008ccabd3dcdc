// Package runlog keeps a CSV history of insight runs under logs/.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pantau-dev/pantau/internal/id"
	"github.com/pantau-dev/pantau/internal/insight"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp   time.Time
	RunID       string
	State       string
	Insights    []string // insight IDs in ranked order
	FailedFeeds []string
	Error       string
}

// Header is the CSV header for insight-log.csv.
const Header = "timestamp,run_id,state,count,insights,failed_feeds,error"

const (
	numFields      = 7
	logDir         = "logs"
	logFile        = "logs/insight-log.csv"
	listSep        = ";"
	colTimestamp   = 0
	colRunID       = 1
	colState       = 2
	colCount       = 3
	colInsights    = 4
	colFailedFeeds = 5
	colError       = 6
)

// FromResult builds an Entry from a finished engine run.
func FromResult(res insight.Result) Entry {
	e := Entry{
		Timestamp: res.Now,
		RunID:     res.RunID,
		State:     res.State().String(),
	}
	for _, name := range res.Failed {
		e.FailedFeeds = append(e.FailedFeeds, string(name))
	}
	for _, in := range res.Insights {
		e.Insights = append(e.Insights, in.ID)
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return e
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colState] = e.State
	row[colCount] = strconv.Itoa(len(e.Insights))
	row[colInsights] = strings.Join(e.Insights, listSep)
	row[colFailedFeeds] = strings.Join(e.FailedFeeds, listSep)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	e := Entry{
		Timestamp:   ts,
		RunID:       record[colRunID],
		State:       record[colState],
		Insights:    splitList(record[colInsights]),
		FailedFeeds: splitList(record[colFailedFeeds]),
		Error:       record[colError],
	}
	n, err := strconv.Atoi(record[colCount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing count %q: %w", record[colCount], err)
	}
	if n != len(e.Insights) {
		return Entry{}, fmt.Errorf("count %d does not match %d insight ids", n, len(e.Insights))
	}
	for _, insightID := range e.Insights {
		if _, _, err := id.ParseInsightID(insightID); err != nil {
			return Entry{}, err
		}
	}
	return e, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}

// Append writes entries to <root>/logs/insight-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/insight-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Last returns the most recent entry, or false when the log is empty.
func Last(root string) (Entry, bool, error) {
	entries, err := Read(root)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[len(entries)-1], true, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
