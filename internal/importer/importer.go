// Package importer loads ledger CSV files into model records.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pantau-dev/pantau/internal/model"
)

// Batch holds the records parsed from one file.
type Batch struct {
	Transactions  []model.Transaction
	Budgets       []model.Budget
	Subscriptions []model.Subscription
	Goals         []model.Goal
}

// Len returns the total number of records.
func (b *Batch) Len() int {
	return len(b.Transactions) + len(b.Budgets) + len(b.Subscriptions) + len(b.Goals)
}

// Parser converts a ledger CSV file into records.
type Parser interface {
	Parse(r io.Reader) (*Batch, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string // detected from the file name prefix, may be empty
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TransactionParser{})
	r.Register(&BudgetParser{})
	r.Register(&SubscriptionParser{})
	r.Register(&GoalParser{})
	return r
}

// DetectFormat returns the format named by a file's prefix:
// "transactions-2025-03.csv" -> "transactions".
func DetectFormat(fileName string) string {
	base := strings.ToLower(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if i := strings.IndexAny(base, "-_."); i >= 0 {
		base = base[:i]
	}
	return base
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: DetectFormat(e.Name()),
		})
	}
	return files, nil
}

// ParseFile parses path with the parser registered for format.
func (r *Registry) ParseFile(path, format string) (*Batch, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("no parser for format %q", format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	b, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
