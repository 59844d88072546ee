package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/collabsync/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a config file. Durations accept "10s"
// style strings or integer nanoseconds. Zero values leave the current
// setting untouched.
type FileConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN       string         `json:"database_dsn" yaml:"database_dsn"`
	Storage           string         `json:"storage" yaml:"storage"`
	DirectoryURL      string         `json:"directory_url" yaml:"directory_url"`
	DirectoryTimeout  timex.Duration `json:"directory_timeout" yaml:"directory_timeout"`
	DirectoryFile     string         `json:"directory_file" yaml:"directory_file"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	LogFormat         string         `json:"log_format" yaml:"log_format"`
	ShutdownTimeout   timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	DBMaxConns        int32          `json:"db_max_conns" yaml:"db_max_conns"`
	DBMaxConnIdleTime timex.Duration `json:"db_max_conn_idle_time" yaml:"db_max_conn_idle_time"`
}

// parseFile overlays values from the config file at path. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. An empty path is a
// no-op.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.Storage, fc.Storage)
	setString(&config.DirectoryURL, fc.DirectoryURL)
	setString(&config.DirectoryFile, fc.DirectoryFile)
	setString(&config.LogLevel, fc.LogLevel)
	setString(&config.LogFormat, fc.LogFormat)

	if fc.DirectoryTimeout.Duration != 0 {
		config.DirectoryTimeout = fc.DirectoryTimeout.Duration
	}
	if fc.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.DBMaxConns != 0 {
		config.DBMaxConns = fc.DBMaxConns
	}
	if fc.DBMaxConnIdleTime.Duration != 0 {
		config.DBMaxConnIdleTime = fc.DBMaxConnIdleTime.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
