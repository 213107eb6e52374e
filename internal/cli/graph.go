package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/decl"
	"github.com/matzehuels/mvnkit/pkg/render/nodelink"
)

// graphCommand draws the dependency declarations of the build file.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		group    string
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the dependency declarations as a graph",
		Long: `Draw the dependency declarations of the build file as a node-link diagram:
groups, dependencies, backing POMs and files, aliases and exclusions.

The format follows the output file extension (.dot or .svg) unless --format
is given. Without --output the DOT source is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.loadBuild()
			if err != nil {
				return err
			}
			var root *decl.Dependencies
			if group == "" {
				root, err = b.AllDependencies()
			} else {
				root, err = b.Dependencies(group)
			}
			if err != nil {
				return err
			}

			dot, err := nodelink.ToDOT(root, nodelink.Options{Detailed: detailed})
			if err != nil {
				return err
			}

			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			data := []byte(dot)
			switch format {
			case "", "dot":
			case "svg":
				if data, err = nodelink.RenderSVG(dot); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown graph format %q (valid: dot, svg)", format)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "dependencies", "d", "", "dependency set id (default: all sets)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&format, "format", "", "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show scopes and exclusions")

	return cmd
}
