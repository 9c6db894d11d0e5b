package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/vyPal/Cafezinho/util"
	"gopkg.in/yaml.v3"
)

// FileNames are the config names GetCfzConf looks for, in order.
var FileNames = []string{"cfzconf.yaml", "cfzconf.yml", "cfzconf.toml"}

var ErrNotFound = errors.New("no cfzconf file found")

type CfzConf struct {
	Name        string          `yaml:"name" toml:"name"`
	Description string          `yaml:"description" toml:"description"`
	Version     string          `yaml:"version" toml:"version"`
	Main        string          `yaml:"main" toml:"main"`
	Author      string          `yaml:"author" toml:"author"`
	License     string          `yaml:"license" toml:"license"`
	Requires    string          `yaml:"requires,omitempty" toml:"requires,omitempty"`
	Runtime     RuntimeConf     `yaml:"runtime" toml:"runtime"`
	Diagnostics DiagnosticsConf `yaml:"diagnostics" toml:"diagnostics"`

	// Dir is the directory the config was loaded from.
	Dir string `yaml:"-" toml:"-"`
}

type RuntimeConf struct {
	MemoryLimitKB   int    `yaml:"memoryLimitKB,omitempty" toml:"memoryLimitKB,omitempty"`
	ReadPrompt      string `yaml:"readPrompt,omitempty" toml:"readPrompt,omitempty"`
	SymbolTableSize int    `yaml:"symbolTableSize,omitempty" toml:"symbolTableSize,omitempty"`
}

// DiagnosticsConf switches are on when unset.
type DiagnosticsConf struct {
	Warnings *bool `yaml:"warnings,omitempty" toml:"warnings,omitempty"`
	Color    *bool `yaml:"color,omitempty" toml:"color,omitempty"`
}

func (c *CfzConf) CreateDefault(name string) {
	if name == "" || name == "." {
		name = "NovoProjeto"
	}
	c.Name = name
	c.Description = "A new Cafezinho project"
	c.Version = "1.0.0"
	c.Main = "src/principal.cfz"
	c.Author = "Anonymous"
	c.License = "MIT"
}

// MemoryLimit is the allocator quota in bytes, or 0 for the default.
func (c CfzConf) MemoryLimit() int {
	if c.Runtime.MemoryLimitKB <= 0 {
		return 0
	}
	return c.Runtime.MemoryLimitKB * 1024
}

func (c CfzConf) ShowWarnings() bool {
	return c.Diagnostics.Warnings == nil || *c.Diagnostics.Warnings
}

func (c CfzConf) UseColor() bool {
	return c.Diagnostics.Color == nil || *c.Diagnostics.Color
}

// MainPath resolves Main against the directory the config came from.
func (c CfzConf) MainPath() string {
	if c.Main == "" || filepath.IsAbs(c.Main) {
		return c.Main
	}
	return filepath.Join(c.Dir, c.Main)
}

// CheckRequires fails when the toolchain version does not satisfy the
// requires constraint.
func (c CfzConf) CheckRequires(version string) error {
	if c.Requires == "" {
		return nil
	}
	v, err := util.Parse(version)
	if err != nil {
		return errors.Wrap(err, "toolchain version")
	}
	ok, err := v.Satisfies(c.Requires)
	if err != nil {
		return errors.Wrapf(err, "requires %q", c.Requires)
	}
	if !ok {
		return errors.Errorf("project %s requires cafezinho %s, running %s", c.Name, c.Requires, version)
	}
	return nil
}

// Confirm answers a yes/no question, returning def when there is no answer.
type Confirm func(question string, def bool) bool

// Save writes the config as TOML when the path ends in .toml and as YAML
// otherwise. An existing file is only replaced when confirm agrees; a nil
// confirm always replaces it. The result reports whether the file was
// written.
func (c *CfzConf) Save(path string, confirm Confirm) (bool, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if confirm != nil && !confirm(path+" already exists. Overwrite?", false) {
			return false, nil
		}
	}

	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return false, errors.Wrapf(err, "encoding %s", path)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return false, errors.Wrapf(err, "encoding %s", path)
		}
		if err := enc.Close(); err != nil {
			return false, errors.Wrapf(err, "encoding %s", path)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, errors.Wrapf(err, "writing %s", path)
	}
	return true, nil
}

// Load reads a single config file. Unknown keys are rejected.
func Load(path string) (CfzConf, error) {
	var conf CfzConf

	data, err := os.ReadFile(path)
	if err != nil {
		return CfzConf{}, errors.Wrap(err, "reading config")
	}

	if isTOML(path) {
		md, err := toml.Decode(string(data), &conf)
		if err != nil {
			return CfzConf{}, errors.Wrapf(err, "parsing %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return CfzConf{}, errors.Errorf("parsing %s: unknown key %s", path, undecoded[0])
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&conf); err != nil {
			return CfzConf{}, errors.Wrapf(err, "parsing %s", path)
		}
	}

	conf.Dir = filepath.Dir(path)
	return conf, nil
}

// GetCfzConf loads the first config found in dir.
func GetCfzConf(dir string) (CfzConf, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return CfzConf{}, errors.Wrapf(ErrNotFound, "in %s", dir)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
