// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/nsdep/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is the optional project configuration. Everything in it has a
// sensible zero default; a missing config file is not an error.
type Config struct {
	Root       string       `json:"root,omitempty" yaml:"root,omitempty"`             // scan root, default "."
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`             // filename glob, default "*.tcl"
	Deprecated []string     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"` // extra deprecated names
	Uncertain  []string     `json:"uncertain,omitempty" yaml:"uncertain,omitempty"`   // extra uncertain names
	Rules      []rules.Spec `json:"rules,omitempty" yaml:"rules,omitempty"`           // extra rewrite rules
	Async      bool         `json:"async,omitempty" yaml:"async,omitempty"`           // run operations async
}

// candidates probed when no explicit config path is given
var defaultPaths = []string{".nsdep.yaml", ".nsdep.yml", ".nsdep.hcl"}

func defaulted(cfg *Config) *Config {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Name == "" {
		cfg.Name = "*.tcl"
	}
	return cfg
}

// 🎯 Load loads the configuration. With an empty path the default locations
// are probed and, when none exists, built-in defaults are returned. An
// explicit path that does not exist is an error.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			logger.Debug().Msg("no config file found, using defaults")
			return defaulted(&Config{}), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file %s: %w", path, err)
	}

	parser := GetParser(path)
	if parser == nil {
		return nil, errors.Errorf("no parser for config file %s", path)
	}

	cfg, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config file %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("loaded config")
	return defaulted(cfg), nil
}

// 🎯 RuleSet folds the config's extra names and rules into the built-ins.
func (c *Config) RuleSet() (*rules.RuleSet, error) {
	rs, err := rules.Default().Merge(c.Deprecated, c.Uncertain, c.Rules)
	if err != nil {
		return nil, errors.Errorf("merging config rules: %w", err)
	}
	return rs, nil
}
