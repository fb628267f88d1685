// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

type Config struct {
	MaxConcurrentDocs int         `yaml:"max_concurrent_docs" validate:"min=1,max=16"`
	MaxWorkersPerDoc  int         `yaml:"max_workers_per_doc" validate:"min=1,max=16"`
	ParsingMode       ParsingMode `yaml:"parsing_mode" validate:"oneof=strict best-effort"`
	// Scale converts document units (inches) to output units.
	Scale float64 `yaml:"scale" validate:"gt=0"`
	// MaxStreamSize caps the expanded size of a compressed sub-stream.
	MaxStreamSize   int  `yaml:"max_stream_size" validate:"min=1"`
	MaxNestingDepth int  `yaml:"max_nesting_depth" validate:"min=1,max=8"`
	ValidateRaster  bool `yaml:"validate_raster"`
	DebugOn         bool `yaml:"debug"`

	Logger       logger.LogFunc `yaml:"-" validate:"-"`
	Decompressor Decompressor   `yaml:"-" validate:"-"`
	Metrics      *Metrics       `yaml:"-" validate:"-"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentDocs: 4,
		MaxWorkersPerDoc:  1,
		ParsingMode:       BestEffort,
		Scale:             1.0,
		MaxStreamSize:     64 << 20,
		MaxNestingDepth:   4,
		ValidateRaster:    false,
		DebugOn:           false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}

// LoadConfig reads a YAML file over the defaults. Environment variables in
// the file are expanded before decoding.
func LoadConfig(filename string) (*Config, error) {
	cfg := NewDefaultConfig()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
