// Package profiles loads named browser profiles from YAML. A default set is
// embedded so the suite runs without any file on disk.
package profiles

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"conduit-e2e/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var embedded []byte

var ErrUnknownProfile = errors.New("unknown browser profile")

type file struct {
	Default  string                  `yaml:"default"`
	Profiles []entity.BrowserProfile `yaml:"profiles"`
}

type Set struct {
	defaultName string
	byName      map[string]entity.BrowserProfile
}

func Default() *Set {
	set, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded profiles are invalid: %v", err))
	}
	return set
}

// Load reads profiles from path, or returns the embedded set when path is
// empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if len(f.Profiles) == 0 {
		return nil, errors.New("no profiles defined")
	}

	set := &Set{defaultName: f.Default, byName: make(map[string]entity.BrowserProfile, len(f.Profiles))}
	for i, p := range f.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d has no name", i)
		}
		if _, dup := set.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Name)
		}
		switch p.Engine {
		case "":
			p.Engine = entity.EngineRod
		case entity.EngineRod, entity.EnginePlaywright:
		default:
			return nil, fmt.Errorf("profile %q: unknown engine %q", p.Name, p.Engine)
		}
		set.byName[p.Name] = p
	}
	if set.defaultName == "" {
		set.defaultName = f.Profiles[0].Name
	}
	if _, ok := set.byName[set.defaultName]; !ok {
		return nil, fmt.Errorf("default profile %q is not defined", set.defaultName)
	}
	return set, nil
}

// Get returns the named profile; an empty name selects the default.
func (s *Set) Get(name string) (entity.BrowserProfile, error) {
	if name == "" {
		name = s.defaultName
	}
	p, ok := s.byName[name]
	if !ok {
		return entity.BrowserProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

func (s *Set) DefaultName() string {
	return s.defaultName
}

func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
