// Package project loads the resolved project configuration from a CI.yaml
// file (LoadDir reads the one in the project root). It has no entry point
// for a configuration supplied directly on the command line.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Standard is the C standard the project targets.
type Standard string

const (
	StandardKR  Standard = "k&r"
	StandardC89 Standard = "c89"
	StandardC95 Standard = "c95"
	StandardC99 Standard = "c99"
	StandardC11 Standard = "c11"
	StandardC17 Standard = "c17"
	StandardC23 Standard = "c23"
)

var validStandards = map[Standard]bool{
	StandardKR: true, StandardC89: true, StandardC95: true, StandardC99: true,
	StandardC11: true, StandardC17: true, StandardC23: true,
}

// CompilerKind identifies the host compiler.
type CompilerKind string

const (
	CompilerClang CompilerKind = "clang"
	CompilerGcc   CompilerKind = "gcc"
)

// Compiler describes the host compiler: its kind plus the absolute
// command path.
type Compiler struct {
	Kind CompilerKind `yaml:"kind"`
	Path string       `yaml:"path"`
}

// Library is a named library with one or more source paths.
type Library struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// Bin is a named binary with a single entry path.
type Bin struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Config is the resolved project configuration. Paths are absolute:
// YAML-relative ones are materialized against the file's directory.
type Config struct {
	Standard     Standard   `yaml:"standard"`
	Compiler     Compiler   `yaml:"compiler"`
	IncludeDirs  []string   `yaml:"include_dirs"`
	Libraries    []*Library `yaml:"libraries"`
	Bins         []*Bin     `yaml:"bins"`
	SelfTests    []string   `yaml:"self_tests"`
	NoStateCheck bool       `yaml:"no_state_check"`
}

// ConfigFileName is the expected file name in the project root.
const ConfigFileName = "CI.yaml"

// Load reads and resolves the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", path, err)
	}
	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if err := config.resolve(base); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadDir loads CI.yaml from the project root directory.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

func (c *Config) resolve(base string) error {
	if c.Standard == "" {
		c.Standard = StandardC99
	}
	if !validStandards[c.Standard] {
		return fmt.Errorf("project: unknown standard %q", c.Standard)
	}
	switch c.Compiler.Kind {
	case CompilerClang, CompilerGcc:
	case "":
		c.Compiler.Kind = CompilerClang
	default:
		return fmt.Errorf("project: unknown compiler kind %q", c.Compiler.Kind)
	}
	c.Compiler.Path = absolutize(base, c.Compiler.Path)
	for i, dir := range c.IncludeDirs {
		c.IncludeDirs[i] = absolutize(base, dir)
	}
	for _, lib := range c.Libraries {
		for i, p := range lib.Paths {
			lib.Paths[i] = absolutize(base, p)
		}
	}
	for _, bin := range c.Bins {
		bin.Path = absolutize(base, bin.Path)
	}
	for i, p := range c.SelfTests {
		c.SelfTests[i] = absolutize(base, p)
	}
	return nil
}

func absolutize(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
