// Package flagx lets several config layers read their own flags from the
// same command line without tripping over each other's definitions.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// DefaultEnvFile is the dotenv file read when -env-file is not given.
const DefaultEnvFile = ".env"

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Both "-c conf.json" and "-config=conf.json" forms are recognised. A token
// starting with "-" is never consumed as a value. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFileFlag returns the config file path given with -c or -config, or
// an empty string when neither is present.
func ConfigFileFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file (json or yaml)")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(args)

	return path
}

// EnvFileFlag returns the dotenv file path given with -env-file, falling back
// to DefaultEnvFile.
func EnvFileFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-env-file"})

	fs := flag.NewFlagSet("env-file", flag.ContinueOnError)
	fs.StringVar(&path, "env-file", DefaultEnvFile, "path to dotenv file")
	_ = fs.Parse(args)

	return path
}
