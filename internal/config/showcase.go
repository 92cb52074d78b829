package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/pdfshowcase/internal/timeline"
)

// Showcase is the user input describing what to show. It is read from YAML
// or JSON; unknown keys are ignored.
type Showcase struct {
	Src              string            `yaml:"src"`
	Title            string            `yaml:"title,omitempty"`
	Subtitle         string            `yaml:"subtitle,omitempty"`
	Pages            []int             `yaml:"pages,omitempty"`
	Highlights       []int             `yaml:"highlights,omitempty"`
	PageTitles       map[string]string `yaml:"pageTitles,omitempty"`
	PageDescriptions map[string]string `yaml:"pageDescriptions,omitempty"`
	Script           timeline.Script   `yaml:"script,omitempty"`
}

// LoadShowcase reads a showcase file. Call Validate once overrides are applied.
func LoadShowcase(path string) (*Showcase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read showcase: %w", err)
	}
	return ParseShowcase(data)
}

// ParseShowcase decodes showcase YAML or JSON. Only syntax is checked here;
// src may still come from flags or discovery.
func ParseShowcase(data []byte) (*Showcase, error) {
	var s Showcase
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return &s, nil
}

// WriteShowcase stores s as YAML.
func WriteShowcase(s *Showcase, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the showcase against the input schema.
func (s *Showcase) Validate() error {
	if s.Src == "" {
		return &ValidationError{Field: "src", Reason: "missing document locator"}
	}
	if err := positive("pages", s.Pages); err != nil {
		return err
	}
	if err := positive("highlights", s.Highlights); err != nil {
		return err
	}
	if err := pageKeys("pageTitles", s.PageTitles); err != nil {
		return err
	}
	if err := pageKeys("pageDescriptions", s.PageDescriptions); err != nil {
		return err
	}
	for i, it := range s.Script {
		if err := timeline.Validate(it); err != nil {
			return &ValidationError{Field: fmt.Sprintf("script[%d]", i), Reason: err.Error()}
		}
	}
	return nil
}

// CheckPageRange rejects references past the end of a document with total pages.
func (s *Showcase) CheckPageRange(total int) error {
	if total <= 0 {
		return nil
	}
	check := func(field string, page int) error {
		if page > total {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("page %d out of range, document has %d", page, total)}
		}
		return nil
	}
	for i, p := range s.Pages {
		if err := check(fmt.Sprintf("pages[%d]", i), p); err != nil {
			return err
		}
	}
	for i, p := range s.Highlights {
		if err := check(fmt.Sprintf("highlights[%d]", i), p); err != nil {
			return err
		}
	}
	for i, it := range s.Script {
		if err := check(fmt.Sprintf("script[%d].page", i), it.Page()); err != nil {
			return err
		}
	}
	return nil
}

// CheckActivePages rejects script pages missing from the active page set.
// Without a custom script the highlights are checked, since they become
// the focus scenes.
func (s *Showcase) CheckActivePages(pages []int) error {
	active := make(map[int]bool, len(pages))
	for _, p := range pages {
		active[p] = true
	}
	check := func(field string, page int) error {
		if page > 0 && !active[page] {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("page %d is not in the active pages %v", page, pages)}
		}
		return nil
	}
	if len(s.Script) > 0 {
		for i, it := range s.Script {
			if err := check(fmt.Sprintf("script[%d].page", i), it.Page()); err != nil {
				return err
			}
		}
		return nil
	}
	for i, p := range s.Highlights {
		if err := check(fmt.Sprintf("highlights[%d]", i), p); err != nil {
			return err
		}
	}
	return nil
}

// EstimateFrames sizes the render without opening the document.
func (s *Showcase) EstimateFrames() int {
	return timeline.Estimate(s.Script, s.Highlights)
}

// Items is the script to compile: the custom one or a synthesized one.
func (s *Showcase) Items() []timeline.Item {
	return timeline.Plan(s.Script, s.Highlights)
}

// PageSource feeds page set resolution; total is the document page count.
func (s *Showcase) PageSource(total int) timeline.PageSource {
	return timeline.PageSource{
		Pages:      s.Pages,
		Script:     s.Script,
		Highlights: s.Highlights,
		Total:      total,
	}
}

func positive(field string, pages []int) error {
	for i, p := range pages {
		if p <= 0 {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: fmt.Sprintf("must be a positive integer, got %d", p)}
		}
	}
	return nil
}

func pageKeys(field string, m map[string]string) error {
	for k := range m {
		if n, err := strconv.Atoi(k); err != nil || n <= 0 {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("key %q is not a page number", k)}
		}
	}
	return nil
}
