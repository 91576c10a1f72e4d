package relkin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Exporter defines an export interface.
type Exporter interface {
	Write(TrialResult) error
	Close() error
}

// CSVExporter writes trial results to a CSV file.
type CSVExporter struct {
	delimiter string
	hdlr      *os.File
}

// NewCSVExporter initializes a new CSV export. A nil header slice writes only
// the creation timestamp comment.
func NewCSVExporter(headers []string, path, filename string) (*CSVExporter, error) {
	f, err := os.Create(filepath.Join(path, filename))
	if err != nil {
		return nil, errors.Wrap(err, "creating export file")
	}
	hdr := fmt.Sprintf("# Creation date (UTC): %s\n", time.Now().UTC())
	if len(headers) > 0 {
		hdr += strings.Join(headers, ",") + "\n"
	}
	if _, err = f.WriteString(hdr); err != nil {
		return nil, errors.Wrap(err, "writing export header")
	}
	return &CSVExporter{",", f}, nil
}

// TrialHeaders returns the column headers matching CSVExporter.Write.
func TrialHeaders() []string {
	return []string{"K", "trial", "err-b0", "err-b1", "err-b2", "err-y0", "err-y1"}
}

// Write writes the norms of the trial error vectors to the CSV file.
func (e CSVExporter) Write(res TrialResult) error {
	vals := []string{
		fmt.Sprintf("%d", res.K),
		fmt.Sprintf("%d", res.Trial),
		fmt.Sprintf("%f", mat.Norm(res.Errors.Coeff0, 2)),
		fmt.Sprintf("%f", mat.Norm(res.Errors.Coeff1, 2)),
		fmt.Sprintf("%f", mat.Norm(res.Errors.Coeff2, 2)),
		fmt.Sprintf("%f", mat.Norm(res.Errors.Position, 2)),
		fmt.Sprintf("%f", mat.Norm(res.Errors.Velocity, 2)),
	}
	_, err := e.hdlr.WriteString(strings.Join(vals, e.delimiter) + "\n")
	return errors.Wrap(err, "writing trial result")
}

// WriteRawLn writes a raw line to the CSV file.
func (e CSVExporter) WriteRawLn(s string) error {
	_, err := e.hdlr.WriteString(s + "\n")
	return errors.Wrap(err, "writing raw line")
}

// Close closes the file.
func (e CSVExporter) Close() error {
	if err := e.WriteRawLn(fmt.Sprintf("# Closing date (UTC): %s", time.Now().UTC())); err != nil {
		return err
	}
	return errors.Wrap(e.hdlr.Close(), "closing export file")
}
