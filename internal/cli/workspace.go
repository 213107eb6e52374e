package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/pom"
	"github.com/matzehuels/mvnkit/pkg/version"
	"github.com/matzehuels/mvnkit/pkg/workspace"
)

// workspaceCommand groups the workspace index commands.
func (c *CLI) workspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect and populate the workspace index",
		Long: `Inspect and populate the workspace index.

Without --redis the index lives in this process only and starts out with the
outputs of the build file, if one exists. With --redis every invocation using
the same namespace shares one index.`,
	}

	cmd.AddCommand(c.workspaceListCommand())
	cmd.AddCommand(c.workspaceFindCommand())
	cmd.AddCommand(c.workspaceVersionsCommand())
	cmd.AddCommand(c.workspaceRegisterCommand())
	cmd.AddCommand(c.workspaceClearCommand())

	return cmd
}

// openWorkspace returns the index with the build's outputs registered when
// the build file exists.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace.Index, error) {
	idx, err := c.workspace(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(c.buildFile); err != nil {
		return idx, nil
	}
	b, err := c.loadBuild()
	if err != nil {
		return nil, err
	}
	if _, err := b.Register(ctx, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// workspaceListCommand creates the "workspace list" subcommand.
func (c *CLI) workspaceListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := idx.Entries(cmd.Context())
			if err != nil {
				return err
			}
			slices.SortFunc(entries, func(a, b workspace.Entry) int { return strings.Compare(a.Key, b.Key) })
			w := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Path)
			}
			return nil
		},
	}
}

// workspaceFindCommand creates the "workspace find" subcommand.
func (c *CLI) workspaceFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <artifact>",
		Short: "Print the file registered for an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := coord.ParseArtifact(args[0])
			if err != nil {
				return err
			}
			idx, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			path, ok, err := idx.FindExact(cmd.Context(), a)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s is not registered", a)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// workspaceVersionsCommand creates the "workspace versions" subcommand.
func (c *CLI) workspaceVersionsCommand() *cobra.Command {
	var spec string

	cmd := &cobra.Command{
		Use:   "versions <artifact>",
		Short: "List registered versions of an artifact",
		Long: `List registered versions of an artifact, oldest first. The version part of
the coordinates is ignored; --range filters with a Maven version range such
as "[1.0,2.0)".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := coord.ParseArtifact(args[0])
			if err != nil {
				return err
			}
			idx, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			var versions []string
			if spec != "" {
				versions, err = idx.FindMatching(cmd.Context(), a, spec)
			} else {
				versions, err = idx.FindVersions(cmd.Context(), a)
			}
			if err != nil {
				return err
			}
			version.Sort(versions)
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "range", "", "version range filter")

	return cmd
}

// workspaceRegisterCommand creates the "workspace register" subcommand.
func (c *CLI) workspaceRegisterCommand() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "register <pom.xml>",
		Short: "Register a POM and the files it produces",
		Long: `Register a POM and the files it produces. Each --artifact takes the POM's
coordinates with its own type and classifier:

  mvnkit workspace register pom.xml --artifact target/app.jar \
      --artifact java-source:target/app-sources.jar

The forms are "file", "type:file" and "type:classifier:file". Registrations
only outlive the process with --redis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, err := pom.Read(args[0])
			if err != nil {
				return err
			}
			artifacts := make([]workspace.PomArtifact, 0, len(files))
			for _, f := range files {
				artifacts = append(artifacts, parsePomArtifact(f))
			}
			idx, err := c.workspace(ctx)
			if err != nil {
				return err
			}
			if err := workspace.RegisterPom(ctx, idx, model, args[0], artifacts...); err != nil {
				return err
			}
			printSuccess("Registered %s", model.Artifact())
			for _, a := range artifacts {
				printFile(a.File)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "artifact", "a", nil, "artifact file, optionally prefixed by type[:classifier]:")

	return cmd
}

// parsePomArtifact parses file, type:file or type:classifier:file. An
// existing file name is taken as is even when it contains colons.
func parsePomArtifact(s string) workspace.PomArtifact {
	if _, err := os.Stat(s); err == nil {
		return workspace.PomArtifact{File: s, Type: coord.DefaultType}
	}
	parts := strings.SplitN(s, ":", 3)
	switch len(parts) {
	case 2:
		return workspace.PomArtifact{Type: parts[0], File: parts[1]}
	case 3:
		return workspace.PomArtifact{Type: parts[0], Classifier: parts[1], File: parts[2]}
	}
	return workspace.PomArtifact{File: s, Type: coord.DefaultType}
}

// workspaceClearCommand creates the "workspace clear" subcommand.
func (c *CLI) workspaceClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.workspace(cmd.Context())
			if err != nil {
				return err
			}
			if err := idx.Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Workspace cleared")
			return nil
		},
	}
}
