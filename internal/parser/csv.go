package parser

import (
	"strings"

	"github.com/KaramelBytes/inflammation/internal/analysis"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(path string, opt analysis.Options) (*analysis.Dataset, error) {
	return analysis.LoadCSV(path, opt)
}
