package repository

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/decl"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Publication is one file to install or deploy.
type Publication struct {
	Artifact coord.Artifact
	File     string
}

// Plan lists the files published for a POM and its artifacts: the POM file
// first, then the artifacts in declaration order. Artifacts take the
// coordinates of the POM they name with SetPomRef, or of pom otherwise.
// artifacts may be nil.
func Plan(pom *decl.Pom, artifacts *decl.Artifacts) ([]Publication, error) {
	if pom == nil {
		return nil, errors.New(errors.ErrCodeInvalidDeclaration, "you must specify a <pom> to install or deploy")
	}
	if err := pom.Validate(); err != nil {
		return nil, err
	}
	file, err := pom.File()
	if err != nil {
		return nil, err
	}
	if file == "" {
		return nil, errors.New(errors.ErrCodeInvalidDeclaration, "you must specify a pom file to install or deploy")
	}
	owner, err := pom.Artifact()
	if err != nil {
		return nil, err
	}
	pubs := []Publication{{Artifact: owner, File: file}}
	if artifacts == nil {
		return pubs, nil
	}

	if err := artifacts.Validate(); err != nil {
		return nil, err
	}
	all, err := artifacts.All()
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		o, err := artifactOwner(a, owner)
		if err != nil {
			return nil, err
		}
		c, err := a.Coordinate(o)
		if err != nil {
			return nil, err
		}
		f, err := a.File()
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, Publication{Artifact: c, File: f})
	}
	return pubs, nil
}

func artifactOwner(a *decl.Artifact, fallback coord.Artifact) (coord.Artifact, error) {
	p, err := a.Pom()
	if err != nil || p == nil {
		return fallback, err
	}
	return p.Artifact()
}

// InstallAll installs every publication into local, in order. It returns the
// installed paths.
func InstallAll(local *Local, pubs []Publication) ([]string, error) {
	paths := make([]string, 0, len(pubs))
	for _, p := range pubs {
		dest, err := local.Install(p.Artifact, p.File)
		if err != nil {
			return paths, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// DeployAll uploads every publication to remote with at most concurrency
// uploads in flight (4 when concurrency <= 0). The first failure cancels the
// remaining uploads.
func DeployAll(ctx context.Context, remote *Remote, pubs []Publication, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 4
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, p := range pubs {
		g.Go(func() error {
			return remote.Deploy(ctx, p.Artifact, p.File)
		})
	}
	return g.Wait()
}
