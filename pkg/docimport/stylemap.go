package docimport

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StyleMap maps a normalized paragraph style name or style id to a heading
// level 1-3. Level 0 means body text.
type StyleMap map[string]int

type styleMapFile struct {
	Headings map[string]int `yaml:"headings"`
}

// DefaultStyleMap knows the built-in Word heading styles in English, Russian,
// French and German installs.
func DefaultStyleMap() StyleMap {
	m := StyleMap{}
	for _, name := range []string{"title", "название", "titre", "titel"} {
		m[normalizeStyleName(name)] = 1
	}
	for _, name := range []string{"subtitle", "подзаголовок", "sous-titre", "untertitel"} {
		m[normalizeStyleName(name)] = 2
	}
	for _, prefix := range []string{"heading", "заголовок", "titre", "überschrift"} {
		for level := 1; level <= 6; level++ {
			m[normalizeStyleName(fmt.Sprintf("%s %d", prefix, level))] = min(level, 3)
		}
	}
	return m
}

// LoadStyleMap merges the YAML file at path over DefaultStyleMap. An empty
// path returns the defaults.
//
//	headings:
//	  "Lesson Heading": 1
//	  "Topic": 2
func LoadStyleMap(path string) (StyleMap, error) {
	m := DefaultStyleMap()
	if path == "" {
		return m, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style map: %w", err)
	}
	var file styleMapFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse style map %s: %w", path, err)
	}
	for name, level := range file.Headings {
		if level < 0 || level > 3 {
			return nil, fmt.Errorf("style map %s: level %d for %q is outside 0-3", path, level, name)
		}
		m[normalizeStyleName(name)] = level
	}
	return m, nil
}

// Level returns the heading level for the first of names that is mapped.
func (m StyleMap) Level(names ...string) int {
	for _, name := range names {
		if name == "" {
			continue
		}
		if level, ok := m[normalizeStyleName(name)]; ok {
			return level
		}
	}
	return 0
}

func normalizeStyleName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}
