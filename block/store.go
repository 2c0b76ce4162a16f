package block

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Definition describes one building block.
type Definition struct {
	// Purpose says what the block is for.
	Purpose string `json:"what_it_is"`
	// Rule constrains how the block may be written.
	Rule string `json:"rule"`
}

// ComplexDefinition describes one complex block with its worked examples.
type ComplexDefinition struct {
	Definition string   `json:"Definition"`
	Examples   []string `json:"Examples"`
}

// Store is the read-only vocabulary lookup backing validation and prompt
// assembly. Construct it once per pipeline run; it is immutable afterwards
// and safe to share across goroutines.
type Store struct {
	blockNames   []string
	blocks       map[string]Definition
	complexNames []string
	complex      map[string]ComplexDefinition
}

// NewStore returns a store holding the embedded default vocabularies.
func NewStore() *Store {
	s := &Store{
		blocks:  make(map[string]Definition),
		complex: make(map[string]ComplexDefinition),
	}
	for _, d := range defaultBuildingBlocks {
		s.blockNames = append(s.blockNames, d.name)
		s.blocks[d.name] = d.def
	}
	for _, d := range defaultComplexBlocks {
		s.complexNames = append(s.complexNames, d.name)
		s.complex[d.name] = d.def
	}
	return s
}

// LoadDir returns a store with the embedded defaults overlaid by definition
// files found under dir. Files matching build_block*.json replace or add
// building blocks; complex_block*.json files do the same for complex blocks.
// Names new to the store are appended in sorted order so iteration stays
// deterministic.
func LoadDir(dir string) (*Store, error) {
	s := NewStore()

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob definitions in %s: %w", dir, err)
	}
	sort.Strings(matches)

	for _, path := range matches {
		base := filepath.Base(path)
		switch {
		case strings.HasPrefix(base, "build_block"):
			if err := s.mergeBuildingBlocks(path); err != nil {
				return nil, err
			}
		case strings.HasPrefix(base, "complex_block"):
			if err := s.mergeComplexBlocks(path); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func (s *Store) mergeBuildingBlocks(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var defs map[string]Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	var added []string
	for name, def := range defs {
		if _, exists := s.blocks[name]; !exists {
			added = append(added, name)
		}
		s.blocks[name] = def
	}
	sort.Strings(added)
	s.blockNames = append(s.blockNames, added...)
	return nil
}

func (s *Store) mergeComplexBlocks(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var defs map[string]ComplexDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	var added []string
	for name, def := range defs {
		if _, exists := s.complex[name]; !exists {
			added = append(added, name)
		}
		s.complex[name] = def
	}
	sort.Strings(added)
	s.complexNames = append(s.complexNames, added...)
	return nil
}

// BuildingBlocks returns the building-block names in stable order.
func (s *Store) BuildingBlocks() []string {
	out := make([]string, len(s.blockNames))
	copy(out, s.blockNames)
	return out
}

// ComplexBlocks returns the complex-block names in stable order.
func (s *Store) ComplexBlocks() []string {
	out := make([]string, len(s.complexNames))
	copy(out, s.complexNames)
	return out
}

// ComplexCount returns the number of complex blocks in the vocabulary.
func (s *Store) ComplexCount() int {
	return len(s.complexNames)
}

// Block looks up a building-block definition.
func (s *Store) Block(name string) (Definition, bool) {
	d, ok := s.blocks[name]
	return d, ok
}

// Complex looks up a complex-block definition.
func (s *Store) Complex(name string) (ComplexDefinition, bool) {
	d, ok := s.complex[name]
	return d, ok
}

// HasBlock reports whether name is a registered building block.
func (s *Store) HasBlock(name string) bool {
	_, ok := s.blocks[name]
	return ok
}

// HasComplex reports whether name is a registered complex block.
func (s *Store) HasComplex(name string) bool {
	_, ok := s.complex[name]
	return ok
}

// DescribeBlocks renders the building-block definitions for inclusion in a
// stage system prompt.
func (s *Store) DescribeBlocks() string {
	var sb strings.Builder
	for _, name := range s.blockNames {
		def := s.blocks[name]
		fmt.Fprintf(&sb, "\n%s:\n", name)
		fmt.Fprintf(&sb, "Purpose: %s\n", def.Purpose)
		fmt.Fprintf(&sb, "Rule: %s\n", def.Rule)
	}
	return sb.String()
}

// DescribeComplex renders the complex-block definitions and examples for
// inclusion in a stage system prompt. When withExamples is false only the
// definitions are rendered.
func (s *Store) DescribeComplex(withExamples bool) string {
	var sb strings.Builder
	for _, name := range s.complexNames {
		def := s.complex[name]
		fmt.Fprintf(&sb, "\n- %s:\n", name)
		fmt.Fprintf(&sb, "  Definition: %s\n", def.Definition)
		if withExamples && len(def.Examples) > 0 {
			fmt.Fprintf(&sb, "  Examples: %s\n", strings.Join(def.Examples, "; "))
		}
	}
	return sb.String()
}
