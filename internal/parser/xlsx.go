package parser

import (
	"strings"

	"github.com/KaramelBytes/inflammation/internal/analysis"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(path string, opt analysis.Options) (*analysis.Dataset, error) {
	return analysis.LoadXLSX(path, opt)
}
