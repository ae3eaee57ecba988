package settings

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"crm-console/internal/observability"
)

// Preferences are the only client-persisted state: display choices, never
// business data.
type Preferences struct {
	Language          string `yaml:"language"`
	Theme             string `yaml:"theme"`
	Currency          string `yaml:"currency"`
	LowStockThreshold int    `yaml:"low_stock_threshold"`
}

func defaultPreferences() Preferences {
	return Preferences{
		Language:          "en",
		Theme:             "dark",
		Currency:          "SAR",
		LowStockThreshold: 10,
	}
}

// PrefStore reads and writes the YAML preferences file and notifies on
// external edits via fsnotify, so a change made in another tab (or an
// editor) applies live.
type PrefStore struct {
	path string

	mu      sync.RWMutex
	current Preferences

	watcher  *fsnotify.Watcher
	onChange func(Preferences)
}

func NewPrefStore(path string) (*PrefStore, error) {
	s := &PrefStore{path: path, current: defaultPreferences()}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s.current); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		// First run, defaults stand.
	default:
		return nil, err
	}
	return s, nil
}

func (s *PrefStore) Current() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *PrefStore) Save(p Preferences) error {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Watch begins delivering externally edited preferences to onChange.
// Stop with Close.
func (s *PrefStore) Watch(onChange func(Preferences)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher
	s.onChange = onChange

	go s.watchLoop()
	return nil
}

func (s *PrefStore) watchLoop() {
	log := observability.Logger().WithField("path", s.path)
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(s.path)
			if err != nil {
				log.WithError(err).Warn("reading preferences failed")
				continue
			}
			var p Preferences
			if err := yaml.Unmarshal(data, &p); err != nil {
				log.WithError(err).Warn("preferences file is not valid yaml")
				continue
			}
			s.mu.Lock()
			s.current = p
			s.mu.Unlock()
			if s.onChange != nil {
				s.onChange(p)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("preferences watcher error")
		}
	}
}

func (s *PrefStore) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
