package buildfile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mvnkit/pkg/decl"
	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/repository"
	"github.com/matzehuels/mvnkit/pkg/workspace"
)

// Validate validates every top-level declaration and returns the first
// error.
func (b *Build) Validate() error {
	if err := b.Repositories.Validate(); err != nil {
		return err
	}
	for i, p := range b.poms {
		if err := p.v.Validate(); err != nil {
			return at(err, "pom", i, p.id)
		}
	}
	for i, g := range b.dependencies {
		if err := g.v.Validate(); err != nil {
			return at(err, "dependencies", i, g.id)
		}
	}
	for i, g := range b.artifacts {
		if err := g.v.Validate(); err != nil {
			return at(err, "artifacts", i, g.id)
		}
	}
	return nil
}

// Pom returns the POM with the given id, or the first POM when id is empty.
func (b *Build) Pom(id string) (*decl.Pom, error) {
	return lookup(b.poms, id, "pom")
}

// Dependencies returns the dependency group with the given id, or the first
// group when id is empty.
func (b *Build) Dependencies(id string) (*decl.Dependencies, error) {
	return lookup(b.dependencies, id, "dependencies")
}

// AllDependencies returns a group containing every top-level dependency
// group of the build.
func (b *Build) AllDependencies() (*decl.Dependencies, error) {
	all := decl.NewDependencies(b.Project)
	for _, g := range b.dependencies {
		if err := all.AddDependencies(g.v); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// Artifacts returns the artifact group with the given id, or the first
// group when id is empty.
func (b *Build) Artifacts(id string) (*decl.Artifacts, error) {
	return lookup(b.artifacts, id, "artifacts")
}

// Owner returns the POM an artifact group was declared for, or nil.
func (b *Build) Owner(g *decl.Artifacts) *decl.Pom {
	return b.owners[g]
}

// IDs lists the ids of the top-level declarations by kind.
func (b *Build) IDs() map[string][]string {
	out := map[string][]string{}
	add := func(kind string, id string) {
		if id != "" {
			out[kind] = append(out[kind], id)
		}
	}
	for _, p := range b.poms {
		add("pom", p.id)
	}
	for _, g := range b.dependencies {
		add("dependencies", g.id)
	}
	for _, g := range b.artifacts {
		add("artifacts", g.id)
	}
	return out
}

func lookup[T any](entries []named[T], id, kind string) (T, error) {
	var zero T
	if len(entries) == 0 {
		return zero, errors.New(errors.ErrCodeNotFound, "the build file declares no %s", kind)
	}
	if id == "" {
		return entries[0].v, nil
	}
	for _, e := range entries {
		if e.id == id {
			return e.v, nil
		}
	}
	return zero, errors.New(errors.ErrCodeNotFound, "no %s with id %q", kind, id)
}

// Publications lists what the build publishes: every file-backed POM and
// the artifacts of every group declared for a POM.
func (b *Build) Publications() ([]repository.Publication, error) {
	var pubs []repository.Publication
	seen := map[string]bool{}
	add := func(list []repository.Publication) {
		for _, p := range list {
			key := p.Artifact.String()
			if !seen[key] {
				seen[key] = true
				pubs = append(pubs, p)
			}
		}
	}

	for _, p := range b.poms {
		file, err := p.v.File()
		if err != nil {
			return nil, err
		}
		if file == "" {
			continue
		}
		list, err := repository.Plan(p.v, nil)
		if err != nil {
			return nil, err
		}
		add(list)
	}
	for _, g := range b.artifacts {
		owner := b.owners[g.v]
		if owner == nil {
			continue
		}
		list, err := repository.Plan(owner, g.v)
		if err != nil {
			return nil, err
		}
		add(list)
	}
	return pubs, nil
}

// Register adds the build's publications to idx so other builds in the
// same workspace resolve them from their build outputs. Registrations run
// concurrently.
func (b *Build) Register(ctx context.Context, idx *workspace.Index) (int, error) {
	pubs, err := b.Publications()
	if err != nil {
		return 0, err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range pubs {
		g.Go(func() error {
			if err := idx.Register(ctx, p.Artifact, p.File); err != nil {
				return fmt.Errorf("register %s: %w", p.Artifact, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(pubs), nil
}
