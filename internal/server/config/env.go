package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/flagx"
	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays environment variables onto config. Variables from
// envFile fill in only what the process environment does not set.
func parseEnv(config *Config, envFile string) error {
	fileVars, err := readEnvFile(envFile)
	if err != nil {
		return err
	}

	return applyEnv(config, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

// readEnvFile reads a dotenv file. A missing default file is not an error;
// a missing file that was asked for explicitly is.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == flagx.DefaultEnvFile {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

// applyEnv recognizes:
//
//	PORT                  listen port (address becomes ":PORT")
//	DATABASE_URL          full DSN
//	POSTGRES_HOST/PORT/USER/PASSWORD/DB
//	                      DSN parts, used when DATABASE_URL is unset
//	STORAGE               postgres | memory
//	DIRECTORY_URL, DIRECTORY_TIMEOUT, DIRECTORY_FILE
//	LOG_LEVEL, LOG_FORMAT
func applyEnv(config *Config, lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return fmt.Errorf("PORT: invalid port %q", v)
		}
		config.EndpointAddrHTTP = ":" + v
	}

	if v, ok := get("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	} else if dsn, ok := postgresDSN(get); ok {
		config.DatabaseDSN = dsn
	}

	if v, ok := get("STORAGE"); ok {
		config.Storage = v
	}
	if v, ok := get("DIRECTORY_URL"); ok {
		config.DirectoryURL = v
	}
	if v, ok := get("DIRECTORY_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DIRECTORY_TIMEOUT: %w", err)
		}
		config.DirectoryTimeout = d
	}
	if v, ok := get("DIRECTORY_FILE"); ok {
		config.DirectoryFile = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		config.LogFormat = v
	}

	return nil
}

// postgresDSN assembles a DSN from POSTGRES_* parts. It reports false when
// none of them is set.
func postgresDSN(get func(string) (string, bool)) (string, bool) {
	parts := map[string]string{
		"POSTGRES_HOST":     "localhost",
		"POSTGRES_PORT":     "5432",
		"POSTGRES_USER":     "postgres",
		"POSTGRES_PASSWORD": "postgres",
		"POSTGRES_DB":       "teste_backend",
	}

	found := false
	for key := range parts {
		if v, ok := get(key); ok {
			parts[key] = v
			found = true
		}
	}
	if !found {
		return "", false
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(parts["POSTGRES_USER"], parts["POSTGRES_PASSWORD"]),
		Host:     net.JoinHostPort(parts["POSTGRES_HOST"], parts["POSTGRES_PORT"]),
		Path:     "/" + parts["POSTGRES_DB"],
		RawQuery: "sslmode=disable",
	}
	return u.String(), true
}
