package main

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	sax "github.com/meiqinyan/SimpleSaxParser"
	"github.com/pkg/errors"
)

// config holds the settings that can be given in a YAML file. Command line flags take precedence.
type config struct {
	Limit    int    `yaml:"limit"`
	Encoding string `yaml:"encoding,omitempty"`
	Events   bool   `yaml:"events"`
	Echo     bool   `yaml:"echo"`
}

func loadConfig(filename string) (config, error) {
	cfg := config{}
	b, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", filename)
	}
	if err := yaml.UnmarshalWithOptions(b, &cfg, yaml.Strict()); err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", filename)
	}
	if cfg.Limit < 0 {
		return cfg, errors.Errorf("config %s: negative limit %d", filename, cfg.Limit)
	}
	return cfg, nil
}

// parseEncoding returns the encoding hint for a flag or config value.
func parseEncoding(s string) (sax.Encoding, error) {
	switch strings.ToLower(s) {
	case "", "auto", "unknown":
		return sax.EncodingUnknown, nil
	case "legacy", "8bit":
		return sax.EncodingLegacy, nil
	case "utf-8", "utf8":
		return sax.EncodingUTF8, nil
	}
	return sax.EncodingUnknown, errors.Errorf("unknown encoding %q, expected auto, legacy or utf-8", s)
}
