package gameconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kofuk/mclaunch/internal/config"
	"gopkg.in/yaml.v3"
)

// VersionText holds a version written either as a string or as a bare number
// (`"java_version": 17`).
type VersionText string

func (v *VersionText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = VersionText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("version must be a string or a number: %w", err)
	}
	*v = VersionText(n.String())
	return nil
}

func (v *VersionText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: version must be a scalar", node.Line)
	}
	*v = VersionText(node.Value)
	return nil
}

type MapDefinition struct {
	Name             string      `json:"name" yaml:"name"`
	MinecraftVersion VersionText `json:"mc_version" yaml:"mc_version"`
	WorldPath        string      `json:"world_path" yaml:"world_path"`
	ResourcePackPath string      `json:"ressourcepack_path" yaml:"ressourcepack_path"`
	ResourcePackAlt  string      `json:"resourcepack_path" yaml:"resourcepack_path"`
}

func (m MapDefinition) ResourcePack() string {
	if m.ResourcePackPath != "" {
		return m.ResourcePackPath
	}
	return m.ResourcePackAlt
}

// Runtime describes a server jar and what it needs to run.
type Runtime struct {
	File        string      `json:"file" yaml:"file"`
	URL         string      `json:"url" yaml:"url"`
	JavaVersion VersionText `json:"java_version" yaml:"java_version"`
	Args        []string    `json:"args" yaml:"args"`
}

// SubRuntime describes a Java installation.
type SubRuntime struct {
	Home string   `json:"home" yaml:"home"`
	Args []string `json:"args" yaml:"args"`
}

type RuntimeEntry struct {
	Expression string
	Runtime    Runtime
}

type SubRuntimeEntry struct {
	Expression string
	SubRuntime SubRuntime
}

// RuntimeTable keeps the entries of "mc_versions" in the order they were written.
type RuntimeTable []RuntimeEntry

// SubRuntimeTable keeps the entries of "java_versions" in the order they were written.
type SubRuntimeTable []SubRuntimeEntry

func (t *RuntimeTable) UnmarshalJSON(data []byte) error {
	return decodeOrderedJSON(data, func(key string, dec *json.Decoder) error {
		var rt Runtime
		if err := dec.Decode(&rt); err != nil {
			return fmt.Errorf("mc_versions[%q]: %w", key, err)
		}
		*t = append(*t, RuntimeEntry{Expression: key, Runtime: rt})
		return nil
	})
}

func (t *RuntimeTable) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrderedYAML(node, func(key string, value *yaml.Node) error {
		var rt Runtime
		if err := value.Decode(&rt); err != nil {
			return fmt.Errorf("mc_versions[%q]: %w", key, err)
		}
		*t = append(*t, RuntimeEntry{Expression: key, Runtime: rt})
		return nil
	})
}

func (t *SubRuntimeTable) UnmarshalJSON(data []byte) error {
	return decodeOrderedJSON(data, func(key string, dec *json.Decoder) error {
		var srt SubRuntime
		if err := dec.Decode(&srt); err != nil {
			return fmt.Errorf("java_versions[%q]: %w", key, err)
		}
		*t = append(*t, SubRuntimeEntry{Expression: key, SubRuntime: srt})
		return nil
	})
}

func (t *SubRuntimeTable) UnmarshalYAML(node *yaml.Node) error {
	return decodeOrderedYAML(node, func(key string, value *yaml.Node) error {
		var srt SubRuntime
		if err := value.Decode(&srt); err != nil {
			return fmt.Errorf("java_versions[%q]: %w", key, err)
		}
		*t = append(*t, SubRuntimeEntry{Expression: key, SubRuntime: srt})
		return nil
	})
}

func decodeOrderedJSON(data []byte, fn func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("expected an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func decodeOrderedYAML(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

type Config struct {
	Maps        []MapDefinition `json:"maps" yaml:"maps"`
	Runtimes    RuntimeTable    `json:"mc_versions" yaml:"mc_versions"`
	SubRuntimes SubRuntimeTable `json:"java_versions" yaml:"java_versions"`
	Launcher    config.Settings `json:"launcher" yaml:"launcher"`
}

func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
	return &cfg, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, formatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) MapNames() []string {
	names := make([]string, 0, len(c.Maps))
	for _, m := range c.Maps {
		names = append(names, m.Name)
	}
	return names
}

// SelectMap returns the map at the 1-based index.
func (c *Config) SelectMap(index int) (*MapDefinition, error) {
	if index < 1 || index > len(c.Maps) {
		return nil, fmt.Errorf("map ID %d is out of range (1-%d)", index, len(c.Maps))
	}
	return &c.Maps[index-1], nil
}
