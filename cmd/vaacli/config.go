// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix = "VAA"

	LogLevelKey       = "log-level"
	LiteralKey        = "literal"
	CacheSizeKey      = "cache-size"
	GuardiansKey      = "guardians"
	GuardianKeysKey   = "guardian-keys"
	EmitterChainKey   = "emitter-chain"
	EmitterAddressKey = "emitter-address"
	SequenceKey       = "sequence"
	NonceKey          = "nonce"
	TimestampKey      = "timestamp"
	ConsistencyKey    = "consistency-level"

	defaultLogLevel  = "info"
	defaultCacheSize = 128
)

// Config is the resolved command line configuration.
type Config struct {
	LogLevel  string `mapstructure:"log-level"`
	Literal   string `mapstructure:"literal"`
	CacheSize int    `mapstructure:"cache-size"`
}

// BuildViper binds the flag set to a viper instance. Every flag can also be
// given as an environment variable, e.g. VAA_LOG_LEVEL for --log-level.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(CacheSizeKey, defaultCacheSize)
	return v, nil
}

// NewConfig reads the shared settings out of v.
func NewConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	if cfg.CacheSize < 1 {
		return cfg, fmt.Errorf("invalid %s %d", CacheSizeKey, cfg.CacheSize)
	}
	return cfg, nil
}

// NewLogger builds a console logger writing to stderr at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", LogLevelKey, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
