package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/ayusman/sharkescape/internal/config"
)

// CSVFile is the name of the per-window statistics file.
const CSVFile = "telemetry.csv"

// CSVWriter appends WindowStats rows to <dir>/telemetry.csv, tagged with
// the session they belong to. The file keeps rows from earlier runs. A nil
// writer ignores every call, so output can be switched off by not creating one.
type CSVWriter struct {
	dir           string
	file          *os.File
	session       string
	headerWritten bool
}

// csvRow is one line of the file.
type csvRow struct {
	Session string `csv:"session"`
	WindowStats
}

// NewCSVWriter creates the output directory and opens the CSV file for
// appending. The header is written only when the file is new or empty.
// Returns nil if dir is empty (output disabled).
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, CSVFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", CSVFile, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %s: %w", CSVFile, err)
	}

	return &CSVWriter{dir: dir, file: f, headerWritten: info.Size() > 0}, nil
}

// SetSession sets the session ID written with every following row.
func (w *CSVWriter) SetSession(id string) {
	if w == nil {
		return
	}
	w.session = id
}

// WriteConfig saves the configuration the session ran with next to the CSV.
func (w *CSVWriter) WriteConfig(cfg *config.Config) error {
	if w == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(w.dir, "config.yaml"))
}

// Write appends one row, with the header before the first.
func (w *CSVWriter) Write(stats WindowStats) error {
	if w == nil {
		return nil
	}
	if w.file == nil {
		return os.ErrClosed
	}

	records := []csvRow{{Session: w.session, WindowStats: stats}}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the file. It is safe to call on a nil writer and more than once.
func (w *CSVWriter) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
