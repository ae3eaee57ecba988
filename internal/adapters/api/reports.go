package api

import (
	"context"
	"net/url"

	"crm-console/internal/domain"
)

func reportQuery(startDate, endDate string) string {
	params := url.Values{}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	if q := params.Encode(); q != "" {
		return "?" + q
	}
	return ""
}

func (c *Client) TasksSummary(ctx context.Context, startDate, endDate string) (*domain.TasksSummary, error) {
	var summary domain.TasksSummary
	if err := c.get(ctx, "/reports/tasks-summary"+reportQuery(startDate, endDate), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// TasksSummaryCSV returns the raw CSV bytes; the reports service decides
// where they land on disk.
func (c *Client) TasksSummaryCSV(ctx context.Context, startDate, endDate string) ([]byte, error) {
	return c.RequestRaw(ctx, "/reports/tasks-summary/csv"+reportQuery(startDate, endDate))
}

func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/stats/dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) RecentTasks(ctx context.Context) ([]domain.Task, error) {
	var resp struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := c.get(ctx, "/dashboard/recent-tasks", &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) RecentOrders(ctx context.Context) ([]domain.Order, error) {
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.get(ctx, "/dashboard/recent-orders", &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}
