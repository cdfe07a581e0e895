package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/KaramelBytes/inflammation/internal/parser"
	"github.com/KaramelBytes/inflammation/internal/utils"
	"github.com/google/uuid"
)

const summariesDir = "summaries"

// Study is a named collection of readings files persisted on disk.
type Study struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the study.json
	rootDir string `json:"-"`
}

// New constructs an in-memory study. Call Save() to persist.
func New(name, description, rootDir string) *Study {
	return &Study{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load loads a study.json from the provided directory.
func Load(dir string) (*Study, error) {
	path := filepath.Join(dir, utils.StudyFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("study not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read study: %w", err)
	}
	var s Study
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse study: %w", err)
	}
	if s.Datasets == nil {
		s.Datasets = make(map[string]*Dataset)
	}
	s.rootDir = dir
	return &s, nil
}

// RootDir returns the on-disk study directory path.
func (s *Study) RootDir() string { return s.rootDir }

// Save writes study.json using atomic write.
func (s *Study) Save() error {
	if s.rootDir == "" {
		return errors.New("study root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, utils.StudyFileName), data)
}

// AddDataset loads the file to check it is a valid Reading Table and records it.
func (s *Study) AddDataset(path, description string, opt analysis.Options) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	for _, d := range s.Datasets {
		if d.Path == abs {
			return nil, fmt.Errorf("dataset %s already in study %s", filepath.Base(abs), s.Name)
		}
	}
	ds, err := parser.LoadFile(abs, opt)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	patients, days := ds.Table.Dims()
	d := &Dataset{
		ID:          uuid.NewString(),
		Path:        abs,
		Name:        filepath.Base(abs),
		Description: description,
		Patients:    patients,
		Days:        days,
		Missing:     ds.Table.MissingCount(),
		AddedAt:     time.Now(),
	}
	if s.Datasets == nil {
		s.Datasets = make(map[string]*Dataset)
	}
	s.Datasets[d.ID] = d
	s.UpdatedAt = time.Now()
	return d, nil
}

// SortedDatasets returns the datasets ordered by name, then ID.
func (s *Study) SortedDatasets() []*Dataset {
	out := make([]*Dataset, 0, len(s.Datasets))
	for _, d := range s.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DatasetByPath finds a registered dataset by file path.
func (s *Study) DatasetByPath(path string) (*Dataset, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	for _, d := range s.Datasets {
		if d.Path == abs {
			return d, true
		}
	}
	return nil, false
}

// AttachSummary writes a rendered report under the study's summaries directory
// without overwriting earlier summaries, and links it to the matching dataset
// when the source file is registered. It returns the written path.
func (s *Study) AttachSummary(sourcePath, content, ext string) (string, error) {
	outDir := filepath.Join(s.rootDir, summariesDir)
	if err := utils.EnsureDir(outDir); err != nil {
		return "", err
	}
	if ext == "" {
		ext = ".md"
	}
	base := filepath.Base(sourcePath)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	outFile := filepath.Join(outDir, safe+".summary"+ext)
	if _, statErr := os.Stat(outFile); statErr == nil {
		for idx := 2; ; idx++ {
			cand := filepath.Join(outDir, fmt.Sprintf("%s__%d.summary%s", safe, idx, ext))
			if _, err := os.Stat(cand); os.IsNotExist(err) {
				outFile = cand
				break
			}
		}
	}
	if err := utils.SafeWriteFile(outFile, []byte(content)); err != nil {
		return "", fmt.Errorf("write study summary: %w", err)
	}
	if d, ok := s.DatasetByPath(sourcePath); ok {
		rel, err := filepath.Rel(s.rootDir, outFile)
		if err != nil {
			rel = outFile
		}
		d.Summary = rel
		s.UpdatedAt = time.Now()
	}
	return outFile, nil
}
