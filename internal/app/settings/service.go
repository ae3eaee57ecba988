// Package settings covers both halves of the settings page: the backend's
// key-value store and the local display preferences.
package settings

import (
	"context"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
)

type Service struct {
	api   *api.Client
	prefs *PrefStore
}

func NewService(client *api.Client, prefs *PrefStore) *Service {
	return &Service{api: client, prefs: prefs}
}

func (s *Service) Remote(ctx context.Context) ([]domain.Setting, error) {
	return s.api.ListSettings(ctx)
}

func (s *Service) Get(ctx context.Context, key string) (*domain.Setting, error) {
	return s.api.GetSetting(ctx, key)
}

func (s *Service) Update(ctx context.Context, key, value, description string) error {
	return s.api.UpdateSetting(ctx, key, value, description)
}

func (s *Service) Preferences() Preferences {
	return s.prefs.Current()
}

func (s *Service) SavePreferences(p Preferences) error {
	return s.prefs.Save(p)
}
