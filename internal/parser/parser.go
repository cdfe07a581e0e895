package parser

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/inflammation/internal/analysis"
)

// Loader reads one file format into a Reading Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt analysis.Options) (*analysis.Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported data format")

// LoadFile selects a loader based on filename and returns the loaded dataset.
func LoadFile(path string, opt analysis.Options) (*analysis.Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// AnalyzeFile loads path and computes its report.
func AnalyzeFile(path string, opt analysis.Options) (*analysis.Report, error) {
	ds, err := LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	return analysis.AnalyzeDataset(ds, opt)
}

func init() {
	// Register default loaders
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(parquetLoader{})
}
