package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// Fallbacks applied by build when neither environment nor flags set a value.
const (
	defaultDriver         = "sqlite3"
	defaultDSN            = "nodes.db"
	defaultRequestTimeout = 30 * time.Second
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 2),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyDefaults()

	return config, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	flags := ParseFlags()

	b.configs = append(b.configs, flags)
	return b
}

func (c *StructuredConfig) applyDefaults() {
	if c.Storage.DB.Driver == "" {
		c.Storage.DB.Driver = defaultDriver
	}
	if c.Storage.DB.DSN == "" {
		c.Storage.DB.DSN = defaultDSN
	}
	if c.Adapter.RequestTimeout <= 0 {
		c.Adapter.RequestTimeout = defaultRequestTimeout
	}
}
