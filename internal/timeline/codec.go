package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is an ordered list of scene directives with a YAML/JSON form:
//
//	- type: focus
//	  page: 3
//	  duration: 120
//	  title: Architecture
type Script []Item

// rawItem is the wire form of a single directive.
type rawItem struct {
	Type     string `yaml:"type"`
	Page     *int   `yaml:"page,omitempty"`
	Duration *int   `yaml:"duration,omitempty"`
	Title    string `yaml:"title,omitempty"`
}

// UnmarshalYAML decodes and validates every directive. Errors name the item index.
func (s *Script) UnmarshalYAML(value *yaml.Node) error {
	var raws []rawItem
	if err := value.Decode(&raws); err != nil {
		return err
	}

	items := make(Script, 0, len(raws))
	for i, r := range raws {
		it, err := r.item()
		if err != nil {
			return fmt.Errorf("script[%d]: %w", i, err)
		}
		items = append(items, it)
	}
	*s = items
	return nil
}

// MarshalYAML writes the wire form, omitting defaulted fields.
func (s Script) MarshalYAML() (interface{}, error) {
	raws := make([]rawItem, 0, len(s))
	for _, it := range s {
		r := rawItem{Type: it.Kind().String(), Title: it.Title()}
		if p := it.Page(); p > 0 {
			r.Page = &p
		}
		if d := duration(it); d > 0 {
			r.Duration = &d
		}
		raws = append(raws, r)
	}
	return raws, nil
}

func (r rawItem) item() (Item, error) {
	kind, err := ParseKind(r.Type)
	if err != nil {
		return nil, err
	}

	d := 0
	if r.Duration != nil {
		if *r.Duration <= 0 {
			return nil, fmt.Errorf("%s: duration must be a positive frame count, got %d", kind, *r.Duration)
		}
		d = *r.Duration
	}

	if kind == KindStack {
		return Stack{Duration: d}, nil
	}

	if r.Page == nil {
		return nil, fmt.Errorf("%s: page is required", kind)
	}
	if *r.Page <= 0 {
		return nil, fmt.Errorf("%s: page must be a positive integer, got %d", kind, *r.Page)
	}

	switch kind {
	case KindFocus:
		return Focus{Target: *r.Page, Duration: d, Caption: r.Title}, nil
	case KindSwitch:
		return Switch{Target: *r.Page, Duration: d, Caption: r.Title}, nil
	case KindFan:
		return Fan{Target: *r.Page, Duration: d, Caption: r.Title}, nil
	}
	panic(fmt.Sprintf("timeline: unhandled kind %v", kind))
}

// WriteScript writes a script to a YAML file
func WriteScript(s Script, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScript reads a script from a YAML or JSON file
func ReadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	return s, nil
}
