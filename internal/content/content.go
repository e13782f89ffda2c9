// Package content serves the marketing-site section data: YAML files on
// disk, parsed and validated at load, held in memory, and hot-reloaded
// when the files change.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/fernside/pawbase/internal/apperr"
)

// Known section names, one YAML file each under the content directory.
var sectionNames = []string{"hero", "services", "testimonials", "faq", "gallery", "locations"}

// Hero is the landing headline block.
type Hero struct {
	Heading    string `yaml:"heading" json:"heading"`
	Subheading string `yaml:"subheading" json:"subheading"`
	ImageURL   string `yaml:"image_url" json:"image_url"`
	CTALabel   string `yaml:"cta_label" json:"cta_label"`
	CTAHref    string `yaml:"cta_href" json:"cta_href"`
}

func (h Hero) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Heading, validation.Required),
	)
}

// Service is one offering (walks, day care, puppy mornings).
type Service struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Price       string `yaml:"price" json:"price"`
	ImageURL    string `yaml:"image_url" json:"image_url"`
}

func (s Service) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Description, validation.Required),
	)
}

// Testimonial is a customer quote.
type Testimonial struct {
	Quote  string `yaml:"quote" json:"quote"`
	Author string `yaml:"author" json:"author"`
	Pet    string `yaml:"pet" json:"pet"`
}

func (t Testimonial) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Quote, validation.Required),
		validation.Field(&t.Author, validation.Required),
	)
}

// FAQItem is a question/answer pair.
type FAQItem struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

func (f FAQItem) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Question, validation.Required),
		validation.Field(&f.Answer, validation.Required),
	)
}

// GalleryImage references an image resource; the image itself is owned
// elsewhere.
type GalleryImage struct {
	URL     string `yaml:"url" json:"url"`
	Caption string `yaml:"caption" json:"caption"`
}

func (g GalleryImage) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.URL, validation.Required),
	)
}

// Location is a service area entry.
type Location struct {
	Name string `yaml:"name" json:"name"`
	Area string `yaml:"area" json:"area"`
}

func (l Location) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required),
	)
}

// Store holds the parsed sections behind a read lock.
type Store struct {
	dir string

	mu       sync.RWMutex
	sections map[string]any
}

// NewStore loads every known section file under dir. A missing file is
// tolerated (the section is simply absent); a malformed file is an error
// at startup.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir, sections: make(map[string]any)}
	for _, name := range sectionNames {
		if err := s.loadSection(name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	return s, nil
}

// Section returns the parsed payload for one section, or ErrNotFound.
func (s *Store) Section(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sections[name]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return v, nil
}

// All returns every loaded section keyed by name.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.sections))
	for k, v := range s.sections {
		out[k] = v
	}
	return out
}

// Sections lists the loaded section names, sorted.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sections))
	for k := range s.sections {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reload re-parses a single section file. On parse or validation failure
// the previous good copy is kept and the error returned. A deleted file
// removes the section.
func (s *Store) Reload(name string) error {
	if !knownSection(name) {
		return fmt.Errorf("content: unknown section %q", name)
	}
	err := s.loadSection(name)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		delete(s.sections, name)
		s.mu.Unlock()
		return nil
	}
	return err
}

func (s *Store) loadSection(name string) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".yaml"))
	if err != nil {
		return err
	}
	parsed, err := parseSection(name, data)
	if err != nil {
		return fmt.Errorf("content: parse %s: %w", name, err)
	}
	s.mu.Lock()
	s.sections[name] = parsed
	s.mu.Unlock()
	return nil
}

func parseSection(name string, data []byte) (any, error) {
	switch name {
	case "hero":
		var v Hero
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, v.Validate()
	case "services":
		return parseList[Service](data)
	case "testimonials":
		return parseList[Testimonial](data)
	case "faq":
		return parseList[FAQItem](data)
	case "gallery":
		return parseList[GalleryImage](data)
	case "locations":
		return parseList[Location](data)
	default:
		return nil, fmt.Errorf("unknown section %q", name)
	}
}

func parseList[T validation.Validatable](data []byte) (any, error) {
	var items []T
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return items, nil
}

func knownSection(name string) bool {
	for _, n := range sectionNames {
		if n == name {
			return true
		}
	}
	return false
}
