package interfaces

import "fundix_e2e/domain/entities"

// ReportStore persists run reports
type ReportStore interface {
	// Save writes the report and returns the paths written
	Save(report *entities.RunReport) ([]string, error)

	// Load reads a report previously written by Save
	Load(path string) (*entities.RunReport, error)
}
