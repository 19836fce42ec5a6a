package hook

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

/* Loader manages hook configuration from hooks.yaml
 * Provides in-memory lookup and satisfies Reader for file-backed deployments
 */

// Config represents the structure of hooks.yaml
type Config struct {
	Hooks []Entry `yaml:"hooks"`
}

// Entry represents a single hook in the YAML file
type Entry struct {
	ID               string            `yaml:"id"`
	Type             string            `yaml:"type" default:"generic"`
	Name             string            `yaml:"name"`
	Order            int               `yaml:"order"`
	Method           string            `yaml:"method"`
	URL              string            `yaml:"url"`
	Text             string            `yaml:"text"`
	WorkflowType     string            `yaml:"workflow_type"`
	IncludeHeaders   bool              `yaml:"include_headers"`
	IncludeCookies   bool              `yaml:"include_cookies"`
	ResponseUsername string            `yaml:"response_username"`
	ResponseIcon     string            `yaml:"response_icon"`
	Attributes       map[string]string `yaml:"attributes"`
}

// UnmarshalYAML applies struct defaults before decoding so explicit values win
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if err := defaults.Set(e); err != nil {
		return fmt.Errorf("setting hook defaults: %w", err)
	}
	type plain Entry
	return node.Decode((*plain)(e))
}

// Hook converts the entry into the domain model
func (e Entry) Hook() Hook {
	return Hook{
		ID:               e.ID,
		TypeID:           e.Type,
		Name:             e.Name,
		Order:            e.Order,
		Method:           e.Method,
		URL:              e.URL,
		Text:             e.Text,
		WorkflowTypeID:   e.WorkflowType,
		Options:          Options{IncludeHeaders: e.IncludeHeaders, IncludeCookies: e.IncludeCookies},
		ResponseUsername: e.ResponseUsername,
		ResponseIcon:     e.ResponseIcon,
		Attributes:       e.Attributes,
	}
}

// Loader holds the loaded hooks
type Loader struct {
	mu    sync.RWMutex
	hooks map[string]Hook
}

// NewLoader creates a new hook loader
func NewLoader() *Loader {
	return &Loader{
		hooks: make(map[string]Hook),
	}
}

// Load reads and parses the hooks.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading hooks file: %w", err)
	}
	return l.Parse(data)
}

// Parse loads hooks from YAML bytes, replacing anything loaded before
func (l *Loader) Parse(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing hooks YAML: %w", err)
	}

	hooks := make(map[string]Hook, len(config.Hooks))
	for _, e := range config.Hooks {
		h := e.Hook()
		if err := h.Validate(); err != nil {
			return fmt.Errorf("validating hook: %w", err)
		}
		if _, dup := hooks[h.ID]; dup {
			return fmt.Errorf("duplicate hook id: %s", h.ID)
		}
		hooks[h.ID] = h
	}

	l.mu.Lock()
	l.hooks = hooks
	l.mu.Unlock()
	return nil
}

// List returns the hooks of a type sorted by order
func (l *Loader) List(_ context.Context, typeID string) ([]Hook, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	hooks := make([]Hook, 0)
	for _, h := range l.hooks {
		if h.TypeID == typeID {
			hooks = append(hooks, h)
		}
	}
	SortByOrder(hooks)
	return hooks, nil
}

// Get retrieves a hook by its ID
func (l *Loader) Get(_ context.Context, id string) (Hook, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	h, exists := l.hooks[id]
	if !exists {
		return Hook{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return h, nil
}

// All returns every loaded hook sorted by order
func (l *Loader) All() []Hook {
	l.mu.RLock()
	defer l.mu.RUnlock()

	hooks := make([]Hook, 0, len(l.hooks))
	for _, h := range l.hooks {
		hooks = append(hooks, h)
	}
	SortByOrder(hooks)
	return hooks
}
