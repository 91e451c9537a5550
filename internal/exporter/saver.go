package exporter

import (
	"strings"

	"WaveletDenoise/internal/model"
)

// Row is one exported observation.
type Row struct {
	Date      string  `parquet:"date"`
	Timestamp int64   `parquet:"ts"`
	Original  float64 `parquet:"original"`
	Denoised  float64 `parquet:"denoised"`
}

// Saver persists a DenoisedResult next to its plot.
type Saver interface {
	Save(res *model.DenoisedResult, path string) error
	Extension() string
}

// NewSaver creates an implementation by format (csv, parquet).
// Returns nil for "none" or an unsupported format.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// Rows flattens a result into export rows.
func Rows(res *model.DenoisedResult) []Row {
	rows := make([]Row, res.Original.Len())
	for i, p := range res.Original.Points {
		rows[i] = Row{
			Date:      p.Date.Format("2006-01-02"),
			Timestamp: p.Date.Unix(),
			Original:  p.Value,
			Denoised:  res.Denoised.Points[i].Value,
		}
	}
	return rows
}
