package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/serve"
)

// serveCommand serves the workspace over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		template string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace as a Maven repository",
		Long: `Serve every workspace registration under /repository/ using a repository
layout, plus a JSON API under /api/workspace. The build file's outputs are
registered first when it exists. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := compileLayout(template)
			if err != nil {
				return err
			}
			idx, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			printSuccess("Serving workspace")
			printKeyValue("repository", StyleLink.Render("http://"+ln.Addr().String()+"/repository/"))
			printKeyValue("layout", l.String())
			printNextStep("List registrations", "curl http://"+ln.Addr().String()+"/api/workspace")

			s := &serve.Server{Index: idx, Layout: l, Logger: loggerFromContext(ctx)}
			return s.Serve(ctx, ln)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8080", "listen address")
	cmd.Flags().StringVarP(&template, "layout", "l", "default", "repository layout")

	return cmd
}
