package exporter

import (
	"WaveletDenoise/internal/model"

	"github.com/parquet-go/parquet-go"
)

// ParquetSaver writes the rows as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(res *model.DenoisedResult, path string) error {
	return parquet.WriteFile(path, Rows(res))
}
