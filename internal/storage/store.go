package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/spring"
)

var ErrRunNotFound = errors.New("run not found")

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Timestamp  time.Time                 `json:"timestamp"`
	Spring     spring.Config             `json:"spring"`
	Integrator string                    `json:"integrator"`
	FPS        int                       `json:"fps"`
	Duration   float64                   `json:"duration"`
	Initial    float64                   `json:"initial"`
	Targets    []experiment.TargetChange `json:"targets"`
	Steps      int                       `json:"steps"`
	SettledAt  float64                   `json:"settled_at"`
	Metrics    map[string]float64        `json:"metrics"`
}

// Save writes meta and the sampled trajectory into a new run directory and
// returns its ID. ID, Timestamp, Steps, SettledAt and Metrics are filled in
// from result.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.SettledAt = result.SettledAt
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return nil
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create states: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteCSV(w, result); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteCSV writes a header of time, x0.., u0.. followed by one row per sample.
func WriteCSV(w *csv.Writer, result *dynamo.Result) error {
	if len(result.States) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	numControls := 0
	if len(result.Controls) > 0 {
		numControls = len(result.Controls[0])
		for i := 0; i < numControls; i++ {
			header = append(header, fmt.Sprintf("u%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(result.Times[i])}
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		for j := 0; j < numControls; j++ {
			val := 0.0
			if i < len(result.Controls) && j < len(result.Controls[i]) {
				val = result.Controls[i][j]
			}
			row = append(row, formatFloat(val))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadResult reads a run's trajectory back, splitting columns into states
// and controls by their header prefix.
func (s *Store) LoadResult(runID string) (*dynamo.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read states %s: %w", runID, err)
	}

	result := &dynamo.Result{Metrics: make(map[string]float64)}
	if len(records) < 2 {
		return result, nil
	}

	header := records[0]
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		var x dynamo.State
		var u dynamo.Control
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			if strings.HasPrefix(header[j], "u") {
				u = append(u, val)
			} else {
				x = append(x, val)
			}
		}
		result.Times = append(result.Times, t)
		result.States = append(result.States, x)
		result.Controls = append(result.Controls, u)
	}

	if meta, err := s.Load(runID); err == nil {
		result.Metrics = meta.Metrics
		result.StepsTaken = meta.Steps
		result.SettledAt = meta.SettledAt
	}
	return result, nil
}
