package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/layout"
)

var (
	layoutsOnce sync.Once
	layouts     *layout.Cache
)

// compileLayout compiles a layout template through the shared cache. The
// names "default" and "flat" select the built-in templates.
func compileLayout(template string) (*layout.Layout, error) {
	layoutsOnce.Do(func() { layouts = layout.NewCache(0, 0) })
	switch strings.ToLower(template) {
	case "", "default", "maven":
		template = layout.Default
	case "flat":
		template = layout.Flat
	}
	return layouts.Get(template)
}

// layoutCommand renders artifact paths through a layout template.
func (c *CLI) layoutCommand() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "layout <artifact>...",
		Short: "Render repository paths for artifacts",
		Long: `Render the repository-relative path of each artifact
(groupId:artifactId[:extension[:classifier]]:version) through a layout template.

Templates use the placeholders ` + strings.Join(layout.Placeholders(), ", ") + `.
The names "default" and "flat" select the Maven and single-directory layouts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := compileLayout(template)
			if err != nil {
				return err
			}
			for _, s := range args {
				a, err := coord.ParseArtifact(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), l.Render(a))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "default", "layout template or built-in name")

	return cmd
}
