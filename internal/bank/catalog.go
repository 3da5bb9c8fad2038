// Package bank provides the static item catalog and the quota-based
// sampler that draws a session's items from it.
package bank

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/abhisek/prepmate/internal/assessment"
)

//go:embed bank.json
var bankFS embed.FS

// Catalog is a flat, unordered list of bank items. It is read-only: the
// sampler never mutates it, and callers should treat it the same way.
type Catalog struct {
	Items []assessment.Item `json:"items"`
}

// Load decodes a catalog from JSON.
func Load(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, it := range c.Items {
		if it.ID == "" || it.Category == "" || it.Prompt == "" {
			return nil, fmt.Errorf("catalog item %d: id, category and prompt are required", i)
		}
	}
	return &c, nil
}

// LoadFile decodes a catalog from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded aptitude bank.
func Default() (*Catalog, error) {
	f, err := bankFS.Open("bank.json")
	if err != nil {
		return nil, fmt.Errorf("open embedded bank: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Categories returns the distinct categories in catalog order of first
// appearance. Intended for populating a configuration form.
func (c *Catalog) Categories() []string {
	var out []string
	for _, it := range c.Items {
		if !slices.Contains(out, it.Category) {
			out = append(out, it.Category)
		}
	}
	return out
}

// Subcategories returns the distinct subcategories of one category, in
// order of first appearance.
func (c *Catalog) Subcategories(category string) []string {
	var out []string
	for _, it := range c.Items {
		if it.Category != category || it.Subcategory == "" {
			continue
		}
		if !slices.Contains(out, it.Subcategory) {
			out = append(out, it.Subcategory)
		}
	}
	return out
}
