package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/layout"
)

// coordsCommand parses coordinates and prints their fields.
func (c *CLI) coordsCommand() *cobra.Command {
	var exclusion bool

	cmd := &cobra.Command{
		Use:   "coords <coordinates>...",
		Short: "Parse dependency or exclusion coordinates",
		Long: `Parse dependency coordinates (groupId:artifactId:version[[:type[:classifier]]:scope])
or, with --exclusion, exclusion patterns (groupId[:artifactId[:extension[:classifier]]])
and print every field with defaults applied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, s := range args {
				if exclusion {
					if err := printExclusion(w, s); err != nil {
						return err
					}
					continue
				}
				if err := printDependency(w, s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&exclusion, "exclusion", "x", false, "parse exclusion patterns")

	return cmd
}

func printDependency(w io.Writer, s string) error {
	d, err := coord.ParseDependency(s)
	if err != nil {
		return err
	}
	a := d.Artifact()
	fmt.Fprintf(w, "%s\n", d)
	fmt.Fprintf(w, "  groupId     %s\n", d.GroupID)
	fmt.Fprintf(w, "  artifactId  %s\n", d.ArtifactID)
	fmt.Fprintf(w, "  version     %s\n", d.Version)
	fmt.Fprintf(w, "  type        %s\n", d.Type)
	if d.Classifier != "" {
		fmt.Fprintf(w, "  classifier  %s\n", d.Classifier)
	}
	fmt.Fprintf(w, "  scope       %s\n", d.Scope)
	fmt.Fprintf(w, "  artifact    %s\n", a)
	fmt.Fprintf(w, "  path        %s\n", layout.MustCompile(layout.Default).Render(a))
	return nil
}

func printExclusion(w io.Writer, s string) error {
	e, err := coord.ParseExclusion(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", e)
	fmt.Fprintf(w, "  groupId     %s\n", e.GroupID)
	fmt.Fprintf(w, "  artifactId  %s\n", e.ArtifactID)
	fmt.Fprintf(w, "  extension   %s\n", e.Extension)
	fmt.Fprintf(w, "  classifier  %s\n", e.Classifier)
	return nil
}
