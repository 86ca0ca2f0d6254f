package config

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/ticklist/internal/appdir"
	"github.com/nibzard/ticklist/internal/logging"
	"github.com/nibzard/ticklist/internal/storage"
)

// LoadWithSources loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.ticklist/ticklist.toml or OS-specific config dir)
// 3. Project config file (ticklist.toml or .ticklist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// The result records which source supplied each field.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. User config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := cws.loadConfigFile(userConfigFile, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := cws.loadConfigFile(projectConfigFile, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg, cws.Sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cws, nil
}

// loadConfigFile decodes a TOML file over the current config and records
// which keys it defined.
func (cws *ConfigWithSources) loadConfigFile(path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cws.Config)
	if err != nil {
		return err
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			cws.Sources[field] = source
		}
	}
	undecoded := md.Undecoded()
	keys := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	for _, key := range keys {
		cws.Warnings = append(cws.Warnings, fmt.Sprintf("%s: unknown key %q", path, key))
	}
	cws.Files = append(cws.Files, path)
	return nil
}

// finalizeConfig resolves the state directory, then derives the storage
// and log paths inside it for anything left unset.
func finalizeConfig(cfg *Config) error {
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	if cfg.HomeDir == "" {
		cfg.HomeDir = appdir.HomeDir()
	}
	home, err := resolvePath(cfg.HomeDir)
	if err != nil {
		return fmt.Errorf("home dir: %w", err)
	}
	cfg.HomeDir = home

	if cfg.StoragePath == "" {
		switch cfg.StorageBackend {
		case storage.BackendSQLite:
			cfg.StoragePath = appdir.DatabasePath(home)
		case storage.BackendMemory:
			// nothing on disk
		default:
			cfg.StoragePath = appdir.StoragePath(home)
		}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = appdir.LogPath(home)
	}

	if cfg.StoragePath, err = resolvePath(cfg.StoragePath); err != nil {
		return fmt.Errorf("storage path: %w", err)
	}
	if cfg.LogFile, err = resolvePath(cfg.LogFile); err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	return nil
}

// Validate checks that enumerated settings hold known values.
func Validate(cfg *Config) error {
	if !storage.ValidBackend(cfg.StorageBackend) {
		return fmt.Errorf("invalid storage_backend %q (want one of: %s)",
			cfg.StorageBackend, strings.Join(storage.Backends(), ", "))
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want debug, info, warn, error)", cfg.LogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log_format %q (want text, json, logfmt)", cfg.LogFormat)
	}
	if strings.TrimSpace(cfg.TimeFormat) == "" {
		return fmt.Errorf("time_format must not be empty")
	}
	return nil
}
