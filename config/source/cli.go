package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/skekre98/modhost/config"
)

// CLISource turns dotted long flags into nested configuration:
//
//	--server.addr=:9090 --modules.greeter.enabled false
//	  -> {server: {addr: ":9090"}, modules: {greeter: {enabled: "false"}}}
//
// Both --flag=value and --flag value work, and -flag is read as --flag.
// Flags without a dot, empty values and positional arguments are ignored, so
// the host's own flags can share the command line. Put it last so flags win
// over every other source.
type CLISource struct {
	// Args replaces os.Args[1:] when non-nil.
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseCLIFlags(args), nil
}

// Watch returns nil: arguments never change.
func (c *CLISource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func parseCLIFlags(raw []string) map[string]any {
	args := normalizeArgs(raw)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var kept []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := flagName(arg)
		if !strings.HasPrefix(arg, "--") || !strings.Contains(name, ".") {
			continue
		}
		if fs.Lookup(name) == nil {
			fs.String(name, "", "config value for "+name)
		}
		kept = append(kept, arg)
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			kept = append(kept, args[i])
		}
	}
	_ = fs.Parse(kept)

	result := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		if v := f.Value.String(); v != "" {
			setNestedValue(result, strings.Split(f.Name, "."), v)
		}
	})
	return result
}

// normalizeArgs rewrites single-dash long flags (-a.b=c) as --a.b=c.
// Single-letter flags such as -v are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if strings.HasPrefix(arg, "--") || !strings.HasPrefix(arg, "-") {
			continue
		}
		if rest := arg[1:]; len(rest) > 1 && rest[0] != '=' {
			out[i] = "-" + arg
		}
	}
	return out
}

// flagName strips dashes and any =value.
func flagName(arg string) string {
	name := strings.TrimLeft(arg, "-")
	name, _, _ = strings.Cut(name, "=")
	return name
}
