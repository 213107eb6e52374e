package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// validateCommand checks the build file.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the build file",
		Long: `Validate every declaration of the build file: coordinates, sources,
references, duplicate dependencies and artifacts, and remote repositories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.loadBuild()
			if err != nil {
				return err
			}
			printSuccess("%s is valid", b.Path)

			ids := b.IDs()
			for _, kind := range slices.Sorted(maps.Keys(ids)) {
				printKeyValue(kind, strings.Join(ids[kind], ", "))
			}
			infos, err := b.Repositories.All()
			if err != nil {
				return err
			}
			for _, r := range infos {
				printKeyValue("repository", fmt.Sprintf("%s %s", r.ID, StyleLink.Render(r.URL)))
			}
			return nil
		},
	}
}
