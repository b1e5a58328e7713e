// Package cli implements the extract-templates command, which prints the
// templates ember-template-lint would check in each input file.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/ddzz/ember-template-lint/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. EXTRACT_TEMPLATES_FORMAT=yaml
const EnvPrefix = "EXTRACT_TEMPLATES"

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// Options are the resolved flag and environment values for one run
type Options struct {
	Format   string
	Path     string
	LogLevel string
	Jobs     int
	Version  bool
}

// NewRootCommand builds the command. Streams are injected so tests can run
// it in-process.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "extract-templates [flags] [path|glob ...]",
		Short: "Print the templates embedded in source files",
		Long: `extract-templates reports every template ember-template-lint would lint
in the given files: the whole file for .hbs and other template files, and
each <template> block or recognised hbs tagged literal for scripts.

Globs are expanded with ** support. With no arguments the source is read
from stdin and --path names it.

Examples:
  # All components, as JSON
  extract-templates 'app/components/**/*.{gjs,gts}'

  # A single file from an editor buffer, as YAML
  cat card.gts | extract-templates --path app/components/card.gts --format yaml
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetOutput(cmd.ErrOrStderr())
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, args, stdin, stdout)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringP("format", "f", formatJSON, "output format: json or yaml")
	flags.StringP("path", "p", "", "logical path of stdin input, used for its extension")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.IntP("jobs", "j", runtime.NumCPU(), "files to extract concurrently")
	flags.Bool("version", false, "print version information and exit")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func loadOptions(v *viper.Viper) (Options, error) {
	opts := Options{
		Format:   strings.ToLower(v.GetString("format")),
		Path:     v.GetString("path"),
		LogLevel: v.GetString("log-level"),
		Jobs:     v.GetInt("jobs"),
		Version:  v.GetBool("version"),
	}

	switch opts.Format {
	case formatJSON, formatYAML:
	default:
		return opts, fmt.Errorf("unsupported format %q: expected %s or %s", opts.Format, formatJSON, formatYAML)
	}

	level, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		return opts, err
	}
	log.SetLevel(level)

	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return opts, nil
}

// Execute runs the command against the process streams. Called by main.
func Execute() {
	cmd := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
