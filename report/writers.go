package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"huntrecap/models"
)

// OutputWriter defines the interface for report output.
type OutputWriter interface {
	Write(report *models.DailyReport) error
	Close() error
	Validate() error
}

// JSONWriter writes the report as a single indented JSON document.
type JSONWriter struct {
	file    *os.File
	written bool
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}
	return &JSONWriter{file: f}, nil
}

// Write encodes the full report document.
func (jw *JSONWriter) Write(report *models.DailyReport) error {
	encoder := json.NewEncoder(jw.file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	jw.written = true
	return nil
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}

// Validate ensures a report was written and the file has data.
func (jw *JSONWriter) Validate() error {
	if !jw.written {
		return fmt.Errorf("no report written")
	}
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

// CSVWriter writes the report's product rows to CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	header := []string{"name", "tagline", "votes", "comments", "url", "maker", "category", "launched_at"}
	if err := writer.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{file: f, writer: writer}, nil
}

// Write appends the report's products to the CSV output.
func (cw *CSVWriter) Write(report *models.DailyReport) error {
	for _, p := range report.Products {
		record := []string{
			p.Name,
			p.Tagline,
			strconv.Itoa(p.Votes),
			strconv.Itoa(p.Comments),
			p.URL,
			p.Maker,
			p.Category,
			p.LaunchedAt.Format(time.RFC3339),
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// DualWriter outputs to both JSON and CSV formats simultaneously.
type DualWriter struct {
	jsonWriter *JSONWriter
	csvWriter  *CSVWriter
}

// NewDualWriter creates a writer producing both output files.
func NewDualWriter(jsonFilename, csvFilename string) (*DualWriter, error) {
	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON writer: %w", err)
	}

	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		jsonWriter.Close()
		return nil, fmt.Errorf("failed to create CSV writer: %w", err)
	}

	return &DualWriter{jsonWriter: jsonWriter, csvWriter: csvWriter}, nil
}

// Write writes the report in both formats.
func (dw *DualWriter) Write(report *models.DailyReport) error {
	if err := dw.jsonWriter.Write(report); err != nil {
		return err
	}
	return dw.csvWriter.Write(report)
}

// Close closes both underlying writers, reporting the first error.
func (dw *DualWriter) Close() error {
	jsonErr := dw.jsonWriter.Close()
	csvErr := dw.csvWriter.Close()
	if jsonErr != nil {
		return jsonErr
	}
	return csvErr
}

// Validate checks both outputs.
func (dw *DualWriter) Validate() error {
	if err := dw.jsonWriter.Validate(); err != nil {
		return err
	}
	return dw.csvWriter.Validate()
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
