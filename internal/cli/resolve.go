package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/decl"
	"github.com/matzehuels/mvnkit/pkg/resolve"
)

type resolveOptions struct {
	group      string
	scopes     []string
	copyTo     string
	copyLayout string
	output     string // "", classpath or properties
	ignoreMiss bool
}

// resolveCommand resolves a dependency set of the build file.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve dependencies declared in the build file",
		Long: `Resolve the direct dependencies of a dependency set.

Each dependency is looked up in the workspace first, then in the local
repository, then in every remote repository unless offline. Artifacts the
build itself declares are registered in the workspace before resolving.

Output:
  (default)     a summary with the source of each dependency
  classpath     the files joined with the platform path separator
  properties    groupId:artifactId:type[:classifier]=path lines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.group, "dependencies", "d", "", "dependency set id (default: all sets)")
	cmd.Flags().StringSliceVarP(&opts.scopes, "scope", "s", nil, "only resolve these scopes")
	cmd.Flags().StringVar(&opts.copyTo, "copy-to", "", "copy the resolved files into this directory")
	cmd.Flags().StringVar(&opts.copyLayout, "copy-layout", "flat", "layout used by --copy-to")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format: classpath, properties")
	cmd.Flags().BoolVar(&opts.ignoreMiss, "ignore-missing", false, "do not fail on unresolved dependencies")

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, opts resolveOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	switch opts.output {
	case "", "classpath", "properties":
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	e, err := c.loadEnv(ctx)
	if err != nil {
		return err
	}
	report, err := c.resolve(ctx, e, opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch opts.output {
	case "classpath":
		fmt.Fprintln(w, report.Classpath())
	case "properties":
		printProperties(w, report.Properties())
	default:
		for _, r := range report.Results {
			printResult(r)
		}
		for _, m := range report.Missing {
			printWarning("%s: %v", m.Dependency, m.Err)
		}
		printCounts("resolved", len(report.Results), "missing", len(report.Missing))
	}

	if opts.copyTo != "" {
		l, err := compileLayout(opts.copyLayout)
		if err != nil {
			return err
		}
		files, err := report.CopyTo(opts.copyTo, l)
		if err != nil {
			return err
		}
		logger.Info("copied", "files", len(files), "dir", opts.copyTo)
	}

	if opts.ignoreMiss {
		return nil
	}
	return report.Err()
}

// resolve registers the build's outputs in the workspace and resolves the
// selected dependency set.
func (c *CLI) resolve(ctx context.Context, e *env, opts resolveOptions) (*resolve.Report, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	idx, err := c.workspace(ctx)
	if err != nil {
		return nil, err
	}
	n, err := e.build.Register(ctx, idx)
	if err != nil {
		return nil, err
	}
	logger.Debug("registered build outputs", "count", n)

	var group *decl.Dependencies
	if opts.group == "" {
		group, err = e.build.AllDependencies()
	} else {
		group, err = e.build.Dependencies(opts.group)
	}
	if err != nil {
		return nil, err
	}
	collected, err := group.Collect()
	if err != nil {
		return nil, err
	}

	r := &resolve.Resolver{
		Workspace: idx,
		Local:     e.local,
		Remotes:   e.remotes,
		Offline:   e.offline,
		Logger:    logger,
	}

	var spin *Spinner
	if !e.offline && len(e.remotes) > 0 && opts.output == "" {
		spin = newSpinner(ctx, fmt.Sprintf("Resolving %d dependencies", len(collected.Dependencies)))
		spin.Start()
	}
	report, err := r.Resolve(ctx, resolve.Request{
		Dependencies: collected.Dependencies,
		Exclusions:   collected.Exclusions,
		Scopes:       opts.scopes,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, err
	}

	prog.done("Resolved %d of %d dependencies", len(report.Results), len(report.Results)+len(report.Missing))
	return report, nil
}
