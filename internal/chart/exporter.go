package chart

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Exporter writes chart rows to a file.
type Exporter interface {
	Save(rows []Row, path string) error
	Extension() string
}

// NewExporter returns the implementation for format (json, csv, parquet).
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONExporter{}, nil
	case "csv":
		return CSVExporter{}, nil
	case "parquet":
		return ParquetExporter{}, nil
	}
	return nil, fmt.Errorf("chart: unsupported export format %q (use json, csv or parquet)", format)
}

// JSONExporter writes an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Extension() string { return "json" }

func (JSONExporter) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// CSVExporter writes a header row then one line per candle; nil overlays
// are left empty.
type CSVExporter struct{}

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write([]string{"ticker", "t", "o", "h", "l", "c", "v", "ema_fast", "ema_slow", "rsi"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Ticker,
			strconv.FormatInt(r.Timestamp, 10),
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			optStr(r.Volume),
			optStr(r.EMAFast),
			optStr(r.EMASlow),
			optStr(r.RSI),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ParquetExporter writes a Parquet file with optional overlay columns.
type ParquetExporter struct{}

func (ParquetExporter) Extension() string { return "parquet" }

func (ParquetExporter) Save(rows []Row, path string) error {
	return parquet.WriteFile(path, rows)
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optStr(f *float64) string {
	if f == nil {
		return ""
	}
	return floatStr(*f)
}
