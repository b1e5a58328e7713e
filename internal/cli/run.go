package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ddzz/ember-template-lint/internal/extract"
	"github.com/ddzz/ember-template-lint/internal/log"
	"github.com/ddzz/ember-template-lint/internal/version"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// FileTemplates is the output record for one input
type FileTemplates struct {
	Path      string               `json:"path" yaml:"path"`
	Templates []extract.Occurrence `json:"templates" yaml:"templates"`
}

func run(ctx context.Context, opts Options, args []string, stdin io.Reader, stdout io.Writer) error {
	if opts.Version {
		return printVersion(opts.Format, stdout)
	}

	if len(args) == 0 {
		source, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		templates, err := extract.ExtractTemplates(string(source), opts.Path)
		if err != nil {
			return err
		}
		return write(opts.Format, stdout, []FileTemplates{{Path: opts.Path, Templates: templates}})
	}

	paths, err := expand(args)
	if err != nil {
		return err
	}

	results, err := extractFiles(ctx, paths, opts.Jobs)
	if err != nil {
		return err
	}
	return write(opts.Format, stdout, results)
}

// expand resolves each argument as a doublestar glob. A literal path that
// does not exist is an error, as is a pattern that matches nothing.
// Duplicates keep their first position.
func expand(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			m = filepath.ToSlash(m)
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	return paths, nil
}

// extractFiles reads and extracts paths with at most jobs in flight.
// Results keep the order of paths.
func extractFiles(ctx context.Context, paths []string, jobs int) ([]FileTemplates, error) {
	results := make([]FileTemplates, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(filepath.FromSlash(path))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			templates, err := extract.ExtractTemplates(string(source), path)
			if err != nil {
				return err
			}
			log.Debug("%s: %d templates", path, len(templates))
			results[i] = FileTemplates{Path: path, Templates: templates}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// write emits results as one JSON array, or one YAML document per file
func write(format string, w io.Writer, results []FileTemplates) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("failed to encode %s: %w", r.Path, err)
			}
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

func printVersion(format string, w io.Writer) error {
	info := version.GetInfo()
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintf(w, "extract-templates %s\n", info)
	return err
}
