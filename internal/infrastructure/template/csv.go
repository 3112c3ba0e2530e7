package template

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"scan_report_srv/internal/usecase/repository"
)

// CSVExporter implements Exporter for comma separated files.
type CSVExporter struct{}

// NewCSV returns a CSV exporter.
func NewCSV() CSVExporter { return CSVExporter{} }

// Export writes the column names as a header followed by one record per row.
func (CSVExporter) Export(rs repository.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rs.Columns); err != nil {
		return nil, err
	}

	record := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, v := range row {
			if v == nil {
				record[i] = ""
				continue
			}
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record[:len(row)]); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVExporter) FileExtension() string { return ".csv" }
