// Package dashboard aggregates the landing-page data.
package dashboard

import (
	"context"
	"time"

	"crm-console/internal/adapters/api"
	"crm-console/internal/app/poll"
	"crm-console/internal/domain"
	"crm-console/internal/observability"
)

type Data struct {
	Stats        *domain.DashboardStats
	RecentTasks  []domain.Task
	RecentOrders []domain.Order
}

type Service struct {
	api    *api.Client
	runner *poll.Runner

	onRefresh func(*Data)
}

// NewService builds the dashboard with a refresh poller; onRefresh fires
// with fresh data on every tick while the dashboard page is visible.
func NewService(client *api.Client, clk domain.Clock, interval time.Duration, onRefresh func(*Data)) *Service {
	s := &Service{api: client, onRefresh: onRefresh}
	s.runner = poll.NewRunner(clk, interval, s.tick)
	return s
}

func (s *Service) Load(ctx context.Context) (*Data, error) {
	stats, err := s.api.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.api.RecentTasks(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.api.RecentOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &Data{Stats: stats, RecentTasks: tasks, RecentOrders: orders}, nil
}

func (s *Service) StartRefresh() {
	s.runner.Start()
}

func (s *Service) StopRefresh() {
	s.runner.Stop()
}

func (s *Service) tick(ctx context.Context) {
	data, err := s.Load(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).WithError(err).Warn("dashboard refresh failed")
		return
	}
	if s.onRefresh != nil {
		s.onRefresh(data)
	}
}
