package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"gopkg.in/yaml.v3"
)

const timestampLayout = "20060102-150405"

type reportStore struct {
	dir string
	now func() time.Time
}

// NewReportStore - creates new report storage in dir, ~/.fundix_e2e/reports when empty
func NewReportStore(dir string) interfaces.ReportStore {
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".fundix_e2e", "reports")
	}
	return &reportStore{dir: dir, now: time.Now}
}

// Save - writes report-<timestamp>.yaml and report-<timestamp>.json
func (s *reportStore) Save(report *entities.RunReport) ([]string, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report dir: %w", err)
	}

	stamp := report.Started
	if stamp.IsZero() {
		stamp = s.now()
	}
	base := filepath.Join(s.dir, "report-"+stamp.Format(timestampLayout))

	yamlData, err := yaml.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml report: %w", err)
	}
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json report: %w", err)
	}

	paths := []string{base + ".yaml", base + ".json"}
	for i, data := range [][]byte{yamlData, jsonData} {
		if err := os.WriteFile(paths[i], data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", paths[i], err)
		}
	}
	return paths, nil
}

// Load - reads a report, the format is picked by extension
func (s *reportStore) Load(path string) (*entities.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report entities.RunReport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &report)
	case ".json":
		err = json.Unmarshal(data, &report)
	default:
		return nil, fmt.Errorf("unknown report format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &report, nil
}
