// Package reports fetches the tasks-summary report and exports it as CSV.
package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
)

type Service struct {
	api         *api.Client
	clock       domain.Clock
	downloadDir string
}

func NewService(client *api.Client, clk domain.Clock, downloadDir string) *Service {
	return &Service{api: client, clock: clk, downloadDir: downloadDir}
}

// Summary fetches the report; startDate/endDate are optional ISO dates.
func (s *Service) Summary(ctx context.Context, startDate, endDate string) (*domain.TasksSummary, error) {
	return s.api.TasksSummary(ctx, startDate, endDate)
}

// ExportCSV downloads the report and writes tasks_summary_<ISO date>.csv
// into the download directory, returning the written path.
func (s *Service) ExportCSV(ctx context.Context, startDate, endDate string) (string, error) {
	data, err := s.api.TasksSummaryCSV(ctx, startDate, endDate)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("reports: create download dir: %w", err)
	}

	name := fmt.Sprintf("tasks_summary_%s.csv", s.clock.Now().UTC().Format("2006-01-02"))
	path := filepath.Join(s.downloadDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("reports: write csv: %w", err)
	}
	return path, nil
}
