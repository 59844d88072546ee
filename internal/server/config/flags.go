package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/collabsync/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-u", "-t", "-f", "-l",
	"-log-format", "-shutdown-timeout", "-db-max-conns", "-db-max-conn-idle",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g. ":3000")
//	-d string              PostgreSQL DSN
//	-s string              storage backend: postgres | memory
//	-u string              directory URL
//	-t duration            directory request timeout (e.g. "10s")
//	-f string              directory snapshot file, replaces -u
//	-l string              log level: debug | info | warn | error
//	-log-format string     json | text | auto
//	-shutdown-timeout d    graceful shutdown budget
//	-db-max-conns int      pool size
//	-db-max-conn-idle d    pool idle connection lifetime
//
// Args not listed above (such as -c or -env-file) are filtered out first
// with flagx.FilterArgs so other layers can own them.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Storage, "s", config.Storage, "storage backend (postgres or memory)")
	fs.StringVar(&config.DirectoryURL, "u", config.DirectoryURL, "directory URL")
	fs.DurationVar(&config.DirectoryTimeout, "t", config.DirectoryTimeout, "directory request timeout")
	fs.StringVar(&config.DirectoryFile, "f", config.DirectoryFile, "directory snapshot file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json, text or auto)")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")

	maxConns := fs.Int("db-max-conns", int(config.DBMaxConns), "max database connections")
	fs.DurationVar(&config.DBMaxConnIdleTime, "db-max-conn-idle", config.DBMaxConnIdleTime, "max database connection idle time")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.DBMaxConns = int32(*maxConns)
	return nil
}
