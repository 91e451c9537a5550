package exporter

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"WaveletDenoise/internal/model"
)

// CSVSaver writes date,ts,original,denoised.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(res *model.DenoisedResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(out io.Writer, res *model.DenoisedResult) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"date", "ts", "original", "denoised"}); err != nil {
		return err
	}
	for _, r := range Rows(res) {
		if err := w.Write([]string{
			r.Date,
			strconv.FormatInt(r.Timestamp, 10),
			floatStr(r.Original),
			floatStr(r.Denoised),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
