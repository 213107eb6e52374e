// Package resolve finds the files of declared dependencies.
//
// Resolution is direct: the listed dependencies are located, their own
// dependencies are not. Each dependency is looked up in order in the
// workspace index, the local repository and then every remote repository,
// whose downloads land in the local repository. System-scoped dependencies
// use their declared systemPath. A dependency that cannot be found is
// reported as missing without failing the others.
package resolve

import (
	"cmp"
	"context"
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/decl"
	mverrors "github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/repository"
	"github.com/matzehuels/mvnkit/pkg/version"
	"github.com/matzehuels/mvnkit/pkg/workspace"
)

// DefaultConcurrency bounds parallel lookups when Resolver.Concurrency is 0.
const DefaultConcurrency = 8

// Source tells where a dependency was found.
type Source string

const (
	SourceWorkspace Source = "workspace"
	SourceLocal     Source = "local"
	SourceRemote    Source = "remote"
	SourceSystem    Source = "system"
)

// Resolver locates dependency files. Nil Workspace and Local are skipped.
type Resolver struct {
	Workspace   *workspace.Index
	Local       *repository.Local
	Remotes     []*repository.Remote
	Offline     bool
	Logger      *log.Logger
	Concurrency int
}

// Request lists what to resolve. Empty Scopes keeps every scope.
type Request struct {
	Dependencies []decl.Entry
	Exclusions   []coord.Exclusion
	Scopes       []string
}

// Result is a resolved dependency.
type Result struct {
	Dependency coord.Dependency
	Artifact   coord.Artifact
	Path       string
	Source     Source
	Repository string // remote id for SourceRemote
}

// Missing is a dependency that could not be resolved.
type Missing struct {
	Dependency coord.Dependency
	Err        error
}

// Resolve resolves req. Unresolvable dependencies end up in
// Report.Missing; the returned error is only set when ctx is done.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Report, error) {
	deps := r.filter(req)

	type outcome struct {
		result  *Result
		missing *Missing
	}
	outcomes := make([]outcome, len(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cmp.Or(r.Concurrency, DefaultConcurrency))
	for i, e := range deps {
		g.Go(func() error {
			res, err := r.resolveOne(gctx, e)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				outcomes[i].missing = &Missing{Dependency: e.Dependency, Err: err}
				return nil
			}
			outcomes[i].result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, o := range outcomes {
		if o.result != nil {
			report.Results = append(report.Results, *o.result)
		} else {
			report.Missing = append(report.Missing, *o.missing)
		}
	}
	return report, nil
}

func (r *Resolver) filter(req Request) []decl.Entry {
	var out []decl.Entry
	for _, e := range req.Dependencies {
		if len(req.Scopes) > 0 && !slices.Contains(req.Scopes, e.Dependency.Scope) {
			continue
		}
		if slices.ContainsFunc(req.Exclusions, func(x coord.Exclusion) bool { return x.MatchesDependency(e.Dependency) }) {
			r.debug("excluded", "dependency", e.Dependency)
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *Resolver) resolveOne(ctx context.Context, e decl.Entry) (*Result, error) {
	d := e.Dependency
	a := d.Artifact()

	if d.Scope == coord.ScopeSystem {
		if e.SystemPath == "" {
			return nil, mverrors.New(mverrors.ErrCodeInvalidDeclaration, "system dependency %s has no systemPath", d)
		}
		if _, err := os.Stat(e.SystemPath); err != nil {
			return nil, mverrors.Wrap(mverrors.ErrCodeArtifactNotFound, err, "system dependency %s", d)
		}
		return &Result{Dependency: d, Artifact: a, Path: e.SystemPath, Source: SourceSystem}, nil
	}

	if isRange(d.Version) {
		v, err := r.pickVersion(ctx, a, d.Version)
		if err != nil {
			return nil, err
		}
		a = a.WithVersion(v)
	}

	if r.Workspace != nil {
		path, ok, err := r.Workspace.FindExact(ctx, a)
		if err != nil {
			return nil, err
		}
		if ok {
			r.debug("resolved from workspace", "artifact", a, "path", path)
			return &Result{Dependency: d, Artifact: a, Path: path, Source: SourceWorkspace}, nil
		}
	}
	if r.Local != nil {
		if path, ok := r.Local.Find(a); ok {
			r.debug("resolved from local repository", "artifact", a, "path", path)
			return &Result{Dependency: d, Artifact: a, Path: path, Source: SourceLocal}, nil
		}
	}
	if r.Offline || r.Local == nil || len(r.Remotes) == 0 {
		return nil, notFound(a, r.Offline)
	}

	var errs []error
	dest := r.Local.Path(a)
	for _, remote := range r.Remotes {
		err := remote.Download(ctx, a, dest)
		if err == nil {
			r.debug("downloaded", "artifact", a, "repo", remote.ID)
			return &Result{Dependency: d, Artifact: a, Path: dest, Source: SourceRemote, Repository: remote.ID}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, repository.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, mverrors.Wrap(mverrors.ErrCodeNetwork, errors.Join(errs...), "could not resolve %s", a)
	}
	return nil, notFound(a, false)
}

// pickVersion chooses the highest workspace version inside a range.
// Ranges are only matched against the workspace; repositories are not
// scanned for versions.
func (r *Resolver) pickVersion(ctx context.Context, a coord.Artifact, spec string) (string, error) {
	if r.Workspace == nil {
		return "", mverrors.New(mverrors.ErrCodeArtifactNotFound, "no workspace to match version range %s of %s", spec, a)
	}
	versions, err := r.Workspace.FindMatching(ctx, a, spec)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", mverrors.New(mverrors.ErrCodeArtifactNotFound, "no workspace version of %s matches %s", a, spec)
	}
	version.Sort(versions)
	return versions[len(versions)-1], nil
}

func (r *Resolver) debug(msg string, kv ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, kv...)
	}
}

func notFound(a coord.Artifact, offline bool) error {
	if offline {
		return mverrors.New(mverrors.ErrCodeArtifactNotFound, "could not find artifact %s (offline)", a)
	}
	return mverrors.New(mverrors.ErrCodeArtifactNotFound, "could not find artifact %s", a)
}

func isRange(v string) bool {
	return strings.ContainsAny(v, "[(")
}
