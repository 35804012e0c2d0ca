package notify

import (
	"context"
	"regexp"
	"sync"
)

// TemplateStore holds named per-channel content templates.
type TemplateStore interface {
	// Add registers or overwrites a template by ID.
	Add(ctx context.Context, tmpl Template) error

	// Get retrieves a template; the bool reports existence.
	Get(ctx context.Context, id string) (*Template, bool)

	// Update merges non-nil fields into an existing template. It returns
	// false when the template is absent.
	Update(ctx context.Context, id string, update TemplateUpdate) (bool, error)

	// Delete removes a template; it returns false when absent.
	Delete(ctx context.Context, id string) (bool, error)
}

// TemplateUpdate carries a partial template; nil fields are left untouched.
type TemplateUpdate struct {
	Name      *string
	Channel   *ChannelType
	Subject   *string
	Content   *string
	Variables *[]string
	Active    *bool
	Language  *string
}

// MemoryTemplateStore is the in-process TemplateStore. Templates live from
// application start to shutdown.
type MemoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewMemoryTemplateStore creates an empty in-memory template store.
func NewMemoryTemplateStore() *MemoryTemplateStore {
	return &MemoryTemplateStore{
		templates: make(map[string]Template),
	}
}

func (s *MemoryTemplateStore) Add(ctx context.Context, tmpl Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[tmpl.ID] = tmpl
	return nil
}

func (s *MemoryTemplateStore) Get(ctx context.Context, id string) (*Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return nil, false
	}
	// Copy so callers cannot mutate stored state.
	out := tmpl
	return &out, true
}

func (s *MemoryTemplateStore) Update(ctx context.Context, id string, update TemplateUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return false, nil
	}

	if update.Name != nil {
		tmpl.Name = *update.Name
	}
	if update.Channel != nil {
		tmpl.Channel = *update.Channel
	}
	if update.Subject != nil {
		tmpl.Subject = *update.Subject
	}
	if update.Content != nil {
		tmpl.Content = *update.Content
	}
	if update.Variables != nil {
		tmpl.Variables = *update.Variables
	}
	if update.Active != nil {
		tmpl.Active = *update.Active
	}
	if update.Language != nil {
		tmpl.Language = *update.Language
	}

	s.templates[id] = tmpl
	return true, nil
}

func (s *MemoryTemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return false, nil
	}
	delete(s.templates, id)
	return true, nil
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Lint reports placeholders present in Content but missing from Variables.
// The check is advisory: registration does not enforce it.
func (t Template) Lint() []string {
	declared := make(map[string]struct{}, len(t.Variables))
	for _, v := range t.Variables {
		declared[v] = struct{}{}
	}

	var undeclared []string
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.Content, -1) {
		name := m[1]
		if _, ok := declared[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		undeclared = append(undeclared, name)
	}
	return undeclared
}
