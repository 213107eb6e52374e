package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnkit/pkg/buildfile"
	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/repository"
)

// selection picks what install and deploy publish.
type selection struct {
	pom       string
	artifacts string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.pom, "pom", "", "publish only this POM and its artifact groups")
	cmd.Flags().StringVar(&s.artifacts, "artifacts", "", "publish only this artifact group and its POM")
}

// publications returns the selected publications, or everything the build
// publishes when nothing is selected.
func (s selection) publications(b *buildfile.Build) ([]repository.Publication, error) {
	if s.pom == "" && s.artifacts == "" {
		return b.Publications()
	}
	if s.artifacts == "" {
		p, err := b.Pom(s.pom)
		if err != nil {
			return nil, err
		}
		return repository.Plan(p, nil)
	}
	g, err := b.Artifacts(s.artifacts)
	if err != nil {
		return nil, err
	}
	p := b.Owner(g)
	if s.pom != "" {
		if p, err = b.Pom(s.pom); err != nil {
			return nil, err
		}
	}
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidDeclaration, "artifact group %q has no POM, use --pom", s.artifacts)
	}
	return repository.Plan(p, g)
}

// installCommand installs build artifacts into the local repository.
func (c *CLI) installCommand() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install POMs and artifacts into the local repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.loadEnv(ctx)
			if err != nil {
				return err
			}
			pubs, err := sel.publications(e.build)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			paths, err := repository.InstallAll(e.local, pubs)
			if err != nil {
				return err
			}
			prog.done("Installed %d files", len(paths))

			printSuccess("Installed into %s", e.local.Root)
			for i, p := range pubs {
				printDetail("%s", p.Artifact)
				printFile(paths[i])
			}
			return nil
		},
	}

	sel.register(cmd)

	return cmd
}

// deployCommand uploads build artifacts to a remote repository.
func (c *CLI) deployCommand() *cobra.Command {
	var (
		sel         selection
		repoID      string
		url         string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy POMs and artifacts to a remote repository",
		Long: `Deploy POMs and artifacts to a remote repository.

The target is a repository declared in the build file (--repository, default
the first one) or an ad-hoc URL (--url). Settings mirrors apply to both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.loadEnv(ctx)
			if err != nil {
				return err
			}
			if e.offline {
				return errors.New(errors.ErrCodeInvalidInput, "cannot deploy while offline")
			}

			var remote *repository.Remote
			if url != "" {
				if err := errors.ValidateURL(url); err != nil {
					return err
				}
				if repoID == "" {
					repoID = "deploy"
				}
				if m, ok := e.settings.Mirror(repoID); ok {
					repoID, url = m.ID, m.URL
				}
				remote = repository.NewRemote(repoID, url)
				remote.Logger = c.Logger
			} else if remote, err = e.remote(repoID); err != nil {
				return err
			}

			pubs, err := sel.publications(e.build)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinner(ctx, fmt.Sprintf("Deploying %d files to %s", len(pubs), remote.ID))
			spin.Start()
			err = repository.DeployAll(ctx, remote, pubs, concurrency)
			if err != nil {
				spin.StopWithError("Deploy to %s failed", remote.ID)
				return err
			}
			spin.StopWithSuccess("Deployed to %s", StyleLink.Render(remote.URL))
			prog.done("Deployed %d files", len(pubs))
			for _, p := range pubs {
				printDetail("%s", p.Artifact)
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&repoID, "repository", "r", "", "target repository id")
	cmd.Flags().StringVar(&url, "url", "", "target repository URL")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "parallel uploads")

	return cmd
}
