package parser

import (
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/KaramelBytes/inflammation/internal/tableio"
)

type parquetLoader struct{}

func (parquetLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".parquet")
}

// Load ignores the text-parsing options; MaxRows does not apply to the long
// format.
func (parquetLoader) Load(path string, _ analysis.Options) (*analysis.Dataset, error) {
	t, err := tableio.ReadParquet(path)
	if err != nil {
		return nil, err
	}
	patients, _ := t.Dims()
	return &analysis.Dataset{Name: filepath.Base(path), Table: t, Rows: patients}, nil
}
