package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://swiftcx.dev/schema/config.json"

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "analysis": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "workers": {"type": "integer", "minimum": 0},
        "keep_going": {"type": "boolean"},
        "recursive": {"type": "boolean"},
        "max_file_size": {"type": "integer", "minimum": 0}
      }
    },
    "thresholds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "threshold": {"type": "integer", "minimum": 0},
        "cyclomatic_complexity": {"type": "integer", "minimum": 1},
        "cognitive_complexity": {"type": "integer", "minimum": 1}
      }
    },
    "exclude": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "regex": {"type": "array", "items": {"type": "string", "format": "regex"}},
        "dirs": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "gitignore": {"type": "boolean"}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "dir": {"type": "string"},
        "ttl": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"enum": ["text", "json", "xml", "xcode", "markdown", "toon"]},
        "metric": {"enum": ["both", "cyclomatic", "cognitive"]},
        "color": {"type": "boolean"},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("failed to read config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Validate checks a config file against the configuration schema and the
// semantic rules of Check. Unknown keys and mistyped values are reported.
func Validate(path string) error {
	k, err := loadRaw(path)
	if err != nil {
		return err
	}

	// Round-trip through JSON so every parser yields the same value shapes.
	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return fmt.Errorf("failed to encode config %s: %w", path, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	sch, err := schema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	_, err = Load(path)
	return err
}
