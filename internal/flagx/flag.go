// Package flagx lets several configuration stages read their own flags from
// the same command line without tripping over each other's definitions.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags,
// together with their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// A token starting with '-' is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
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

// ConfigFiles holds the optional configuration file locations given on the
// command line.
type ConfigFiles struct {
	// JSON is set by -c or -config.
	JSON string
	// Env is set by -env-file; it points to a dotenv file.
	Env string
}

// ConfigFileFlags extracts -c/-config and -env-file from args (usually
// os.Args[1:]). All other arguments are ignored.
func ConfigFileFlags(args []string) ConfigFiles {
	var files ConfigFiles

	args = FilterArgs(args, []string{"-c", "-config", "-env-file"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.StringVar(&files.JSON, "config", "", "Path to JSON config file")
	fs.StringVar(&files.JSON, "c", "", "Path to JSON config file (short)")
	fs.StringVar(&files.Env, "env-file", "", "Path to dotenv file")
	_ = fs.Parse(args)

	return files
}
