package assessment

import (
	"fmt"
	"slices"
)

// Mode selects how a session's items are produced.
type Mode string

const (
	// ModeSampled draws items from the static bank.
	ModeSampled Mode = "sampled"

	// ModeGenerated asks the content generator for a fresh interview.
	ModeGenerated Mode = "generated"
)

// Config bounds.
const (
	MinNameLen = 3
	MaxNameLen = 20
	MinQuota   = 1
	MaxQuota   = 30
)

// GeneratedParams are the mode-specific parameters for generated sessions.
type GeneratedParams struct {
	// Domain is the primary language or problem domain, e.g. "Go".
	Domain string `json:"domain"`

	// Stack is the broader technology stack, e.g. "Go, Postgres, Kubernetes".
	Stack string `json:"stack"`

	// Role describes the position being interviewed for.
	Role string `json:"role"`

	// Experience is the candidate's experience level, e.g. "senior".
	Experience string `json:"experience"`
}

// Validate checks that the profile is complete enough to generate from.
func (p GeneratedParams) Validate() error {
	if p.Domain == "" {
		return &ValidationError{Field: "generated.domain", Message: "domain is required"}
	}
	if p.Role == "" {
		return &ValidationError{Field: "generated.role", Message: "role is required"}
	}
	return nil
}

// SessionConfig holds the user-declared session parameters. Categories and
// Quota are always kept key-synchronized: adding a category seeds its quota
// to MinQuota, removing one deletes its quota entry.
//
// The zero value is not usable; construct with NewConfig.
type SessionConfig struct {
	// Name labels the session on the caller's dashboard. 3-20 characters,
	// checked by Validate.
	Name string `json:"name"`

	Mode Mode `json:"mode"`

	// Categories is the ordered set of selected categories. Sampled items
	// are emitted in this order. Never empty after construction: removing
	// the last selected category is rejected.
	Categories []string `json:"categories"`

	// Quota maps each selected category to its requested item count.
	Quota map[string]int `json:"quotaPerCategory"`

	// Subtopics optionally restricts sampled-mode selection to a subset of
	// subcategories. Nil means all subcategories are eligible.
	Subtopics []string `json:"subtopics,omitempty"`

	// Generated carries the generator parameters for ModeGenerated.
	Generated *GeneratedParams `json:"generated,omitempty"`
}

// NewConfig creates a config with the given initial categories, each seeded
// with a quota of MinQuota. At least one category is required.
func NewConfig(name string, mode Mode, categories ...string) (*SessionConfig, error) {
	if len(categories) == 0 {
		return nil, &ValidationError{Field: "categories", Message: "at least one category must be selected"}
	}
	cfg := &SessionConfig{
		Name:  name,
		Mode:  mode,
		Quota: make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if slices.Contains(cfg.Categories, c) {
			continue
		}
		cfg.Categories = append(cfg.Categories, c)
		cfg.Quota[c] = MinQuota
	}
	return cfg, nil
}

// AddCategory selects a category, seeding its quota to MinQuota.
// Adding an already-selected category is a no-op.
func (c *SessionConfig) AddCategory(category string) {
	if slices.Contains(c.Categories, category) {
		return
	}
	c.Categories = append(c.Categories, category)
	c.Quota[category] = MinQuota
}

// RemoveCategory deselects a category and deletes its quota entry.
// Removing the last selected category is rejected.
func (c *SessionConfig) RemoveCategory(category string) error {
	i := slices.Index(c.Categories, category)
	if i < 0 {
		return &ValidationError{Field: "categories", Message: fmt.Sprintf("category %q is not selected", category)}
	}
	if len(c.Categories) == 1 {
		return &ValidationError{Field: "categories", Message: "cannot remove the last selected category"}
	}
	c.Categories = slices.Delete(c.Categories, i, i+1)
	delete(c.Quota, category)
	return nil
}

// SetQuota sets the requested item count for one selected category.
func (c *SessionConfig) SetQuota(category string, n int) error {
	if !slices.Contains(c.Categories, category) {
		return &ValidationError{Field: "quota", Message: fmt.Sprintf("category %q is not selected", category)}
	}
	if n < MinQuota || n > MaxQuota {
		return &ValidationError{Field: "quota", Message: fmt.Sprintf("quota %d out of range [%d,%d]", n, MinQuota, MaxQuota)}
	}
	c.Quota[category] = n
	return nil
}

// SetAllQuotas bulk-sets every selected category to the same count.
func (c *SessionConfig) SetAllQuotas(n int) error {
	if n < MinQuota || n > MaxQuota {
		return &ValidationError{Field: "quota", Message: fmt.Sprintf("quota %d out of range [%d,%d]", n, MinQuota, MaxQuota)}
	}
	for _, cat := range c.Categories {
		c.Quota[cat] = n
	}
	return nil
}

// SetSubtopics restricts sampled-mode selection to the given subcategories.
func (c *SessionConfig) SetSubtopics(subtopics ...string) {
	c.Subtopics = slices.Clone(subtopics)
}

// TotalRequested is the sum of all per-category quotas.
func (c *SessionConfig) TotalRequested() int {
	total := 0
	for _, n := range c.Quota {
		total += n
	}
	return total
}

// Validate checks the config as a whole. It is called before a session is
// created from the config; mutation methods already enforce their own
// bounds, so this mostly catches hand-built configs.
func (c *SessionConfig) Validate() error {
	if len(c.Name) < MinNameLen || len(c.Name) > MaxNameLen {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("must be %d-%d characters, got %d", MinNameLen, MaxNameLen, len(c.Name)),
		}
	}
	if c.Mode != ModeSampled && c.Mode != ModeGenerated {
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
	if len(c.Categories) == 0 {
		return &ValidationError{Field: "categories", Message: "at least one category must be selected"}
	}
	if len(c.Categories) != len(c.Quota) {
		return &ValidationError{Field: "quota", Message: "categories and quota entries out of sync"}
	}
	for _, cat := range c.Categories {
		n, ok := c.Quota[cat]
		if !ok {
			return &ValidationError{Field: "quota", Message: fmt.Sprintf("category %q has no quota entry", cat)}
		}
		if n < MinQuota || n > MaxQuota {
			return &ValidationError{Field: "quota", Message: fmt.Sprintf("quota %d out of range [%d,%d]", n, MinQuota, MaxQuota)}
		}
	}
	if c.Mode == ModeGenerated {
		if c.Generated == nil {
			return &ValidationError{Field: "generated", Message: "generated mode requires generator parameters"}
		}
		if err := c.Generated.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// clone returns a deep copy, used to freeze the config at session creation.
func (c *SessionConfig) clone() SessionConfig {
	out := *c
	out.Categories = slices.Clone(c.Categories)
	out.Subtopics = slices.Clone(c.Subtopics)
	out.Quota = make(map[string]int, len(c.Quota))
	for k, v := range c.Quota {
		out.Quota[k] = v
	}
	if c.Generated != nil {
		g := *c.Generated
		out.Generated = &g
	}
	return out
}
