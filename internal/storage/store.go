package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/export"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps headless runs on disk, one directory per run holding
// metadata.json and states.csv.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Frames    int                `json:"frames"`
	Impulses  []export.Impulse   `json:"impulses,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes trace under a new run id derived from the scenario name and
// the current time.
func (s *Store) Save(cfg *config.Config, trace *export.Trace) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", trace.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  trace.Name,
		Timestamp: now,
		Config:    *cfg,
		Frames:    len(trace.States),
		Impulses:  trace.Impulses,
		Metrics:   trace.Metrics,
	}
	if err := writeFile(filepath.Join(runDir, "metadata.json"), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "states.csv"), func(f *os.File) error {
		return export.WriteCSV(f, trace)
	}); err != nil {
		return "", err
	}
	return runID, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads a run's states back with its metadata attached.
func (s *Store) LoadTrace(runID string) (*export.Trace, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trace, err := export.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	trace.Name = meta.Scenario
	trace.FPS = meta.Config.FPS
	trace.Impulses = meta.Impulses
	trace.Metrics = meta.Metrics
	return trace, nil
}
