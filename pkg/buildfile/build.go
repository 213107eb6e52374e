// Package buildfile loads declarative build files.
//
// A build file declares properties, repositories, POMs, dependency groups
// and artifact groups in TOML (the default) or YAML:
//
//	localRepository = "${user.home}/.m2/repository"
//
//	[properties]
//	slf4j = "2.0.9"
//
//	[[repository]]
//	id  = "central"
//	url = "https://repo.maven.apache.org/maven2"
//
//	[[pom]]
//	id   = "app"
//	file = "pom.xml"
//
//	[[dependencies]]
//	id = "compile"
//	[[dependencies.dependency]]
//	coords = "org.slf4j:slf4j-api:${slf4j}"
//
//	[[artifacts]]
//	pom = "app"
//	[[artifacts.artifact]]
//	file = "target/app.jar"
//
// "${name}" expands to a property; unknown names are left as is. Every
// entry is turned into a [decl] declaration through its setters, so a
// conflicting configuration fails while loading with the same errors the
// declarations raise.
//
// [decl]: github.com/matzehuels/mvnkit/pkg/decl
package buildfile

import (
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/matzehuels/mvnkit/pkg/decl"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

var propertyRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// Build is a loaded build file.
type Build struct {
	Path    string
	Spec    *Spec
	Project *decl.Project

	Repositories *decl.RemoteRepositories
	poms         []named[*decl.Pom]
	dependencies []named[*decl.Dependencies]
	artifacts    []named[*decl.Artifacts]
	owners       map[*decl.Artifacts]*decl.Pom
}

type named[T any] struct {
	id string
	v  T
}

// Load reads the build file at path. defines override the file's
// properties.
func Load(path string, defines map[string]string) (*Build, error) {
	spec, err := ReadSpec(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return New(abs, spec, defines)
}

// New builds the declarations of spec. Relative paths resolve against the
// directory of path.
func New(path string, spec *Spec, defines map[string]string) (*Build, error) {
	b := &Build{
		Path:    path,
		Spec:    spec,
		Project: decl.NewProject(filepath.Dir(path)),
		owners:  make(map[*decl.Artifacts]*decl.Pom),
	}
	b.setProperties(defines)
	b.Repositories = decl.NewRemoteRepositories(b.Project)

	for i, rs := range spec.Repositories {
		r, err := b.repository(rs)
		if err != nil {
			return nil, at(err, "repository", i, rs.ID)
		}
		if err := b.Repositories.AddRemoteRepository(r); err != nil {
			return nil, at(err, "repository", i, rs.ID)
		}
	}
	for i, ps := range spec.Poms {
		p, err := b.pom(ps)
		if err != nil {
			return nil, at(err, "pom", i, ps.ID)
		}
		b.poms = append(b.poms, named[*decl.Pom]{ps.ID, p})
	}
	for i, gs := range spec.Dependencies {
		g, err := b.group(gs)
		if err != nil {
			return nil, at(err, "dependencies", i, gs.ID)
		}
		b.dependencies = append(b.dependencies, named[*decl.Dependencies]{gs.ID, g})
	}
	for i, as := range spec.Artifacts {
		g, err := b.artifactGroup(as)
		if err != nil {
			return nil, at(err, "artifacts", i, as.ID)
		}
		b.artifacts = append(b.artifacts, named[*decl.Artifacts]{as.ID, g})
	}
	return b, nil
}

func at(err error, kind string, i int, id string) error {
	if id != "" {
		return errors.Wrap(errors.GetCode(err), err, "%s %q", kind, id)
	}
	return errors.Wrap(errors.GetCode(err), err, "%s #%d", kind, i+1)
}

func (b *Build) setProperties(defines map[string]string) {
	if home, err := os.UserHomeDir(); err == nil {
		b.Project.SetProperty("user.home", home)
	}
	b.Project.SetProperty("basedir", b.Project.BaseDir())
	for _, k := range slices.Sorted(maps.Keys(b.Spec.Properties)) {
		b.Project.SetProperty(k, b.Spec.Properties[k])
	}
	for k, v := range defines {
		b.Project.SetProperty(k, v)
	}
}

// Expand replaces "${name}" with the value of property name.
func (b *Build) Expand(s string) string {
	return propertyRe.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := b.Project.Property(m[2 : len(m)-1]); ok {
			return v
		}
		return m
	})
}

// Properties returns the effective properties.
func (b *Build) Properties() map[string]string {
	return b.Project.Properties()
}

// LocalRepository returns the expanded localRepository entry.
func (b *Build) LocalRepository() string {
	return b.Expand(b.Spec.LocalRepository)
}

// setters applies every non-empty value to its setter in order.
type setters []struct {
	value string
	set   func(string) error
}

func (b *Build) apply(s setters) error {
	for _, e := range s {
		if e.value == "" {
			continue
		}
		if err := e.set(b.Expand(e.value)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Build) register(id string, v any) error {
	if id == "" {
		return nil
	}
	return b.Project.AddReference(id, v)
}

func (b *Build) repository(rs RepositorySpec) (*decl.RemoteRepository, error) {
	r := decl.NewRemoteRepository(b.Project)
	if err := b.apply(setters{
		{rs.ID, r.SetID},
		{rs.URL, r.SetURL},
		{rs.Layout, r.SetLayout},
		{boolString(rs.Releases), func(v string) error { return r.SetReleases(v == "true") }},
		{boolString(rs.Snapshots), func(v string) error { return r.SetSnapshots(v == "true") }},
		{rs.RefID, r.SetRefID},
	}); err != nil {
		return nil, err
	}
	return r, b.register(rs.ID, r)
}

func (b *Build) pom(ps PomSpec) (*decl.Pom, error) {
	p := decl.NewPom(b.Project)
	if err := b.apply(setters{
		{ps.File, p.SetFile},
		{ps.Coords, p.SetCoords},
		{ps.GroupID, p.SetGroupID},
		{ps.ArtifactID, p.SetArtifactID},
		{ps.Version, p.SetVersion},
		{ps.RefID, p.SetRefID},
	}); err != nil {
		return nil, err
	}
	return p, b.register(ps.ID, p)
}

func (b *Build) group(gs GroupSpec) (*decl.Dependencies, error) {
	g := decl.NewDependencies(b.Project)
	if err := b.apply(setters{
		{gs.File, g.SetFile},
		{gs.Pom, g.SetPomRef},
	}); err != nil {
		return nil, err
	}
	for _, es := range gs.Exclusions {
		e, err := b.exclusion(es)
		if err != nil {
			return nil, err
		}
		if err := g.AddExclusion(e); err != nil {
			return nil, err
		}
	}
	for _, ds := range gs.Dependencies {
		d, err := b.dependency(ds)
		if err != nil {
			return nil, err
		}
		if err := g.AddDependency(d); err != nil {
			return nil, err
		}
	}
	for _, ns := range gs.Groups {
		n, err := b.group(ns)
		if err != nil {
			return nil, err
		}
		if err := g.AddDependencies(n); err != nil {
			return nil, err
		}
	}
	if err := b.apply(setters{{gs.RefID, g.SetRefID}}); err != nil {
		return nil, err
	}
	return g, b.register(gs.ID, g)
}

func (b *Build) dependency(ds DependencySpec) (*decl.Dependency, error) {
	d := decl.NewDependency(b.Project)
	if err := b.apply(setters{
		{ds.Coords, d.SetCoords},
		{ds.GroupID, d.SetGroupID},
		{ds.ArtifactID, d.SetArtifactID},
		{ds.Version, d.SetVersion},
		{ds.Type, d.SetType},
		{ds.Classifier, d.SetClassifier},
		{ds.Scope, d.SetScope},
		{ds.SystemPath, d.SetSystemPath},
	}); err != nil {
		return nil, err
	}
	for _, es := range ds.Exclusions {
		e, err := b.exclusion(es)
		if err != nil {
			return nil, err
		}
		if err := d.AddExclusion(e); err != nil {
			return nil, err
		}
	}
	if err := b.apply(setters{{ds.RefID, d.SetRefID}}); err != nil {
		return nil, err
	}
	return d, b.register(ds.ID, d)
}

func (b *Build) exclusion(es ExclusionSpec) (*decl.Exclusion, error) {
	e := decl.NewExclusion(b.Project)
	if err := b.apply(setters{
		{es.Coords, e.SetCoords},
		{es.GroupID, e.SetGroupID},
		{es.ArtifactID, e.SetArtifactID},
		{es.Extension, e.SetExtension},
		{es.Classifier, e.SetClassifier},
		{es.RefID, e.SetRefID},
	}); err != nil {
		return nil, err
	}
	return e, b.register(es.ID, e)
}

func (b *Build) artifactGroup(as ArtifactsSpec) (*decl.Artifacts, error) {
	g := decl.NewArtifacts(b.Project)
	for _, s := range as.Artifacts {
		a, err := b.artifact(s)
		if err != nil {
			return nil, err
		}
		if err := g.AddArtifact(a); err != nil {
			return nil, err
		}
	}
	for _, ns := range as.Groups {
		n, err := b.artifactGroup(ns)
		if err != nil {
			return nil, err
		}
		if err := g.AddArtifacts(n); err != nil {
			return nil, err
		}
	}
	if err := b.apply(setters{{as.RefID, g.SetRefID}}); err != nil {
		return nil, err
	}
	if as.Pom != "" {
		p, err := b.pomRef(b.Expand(as.Pom))
		if err != nil {
			return nil, err
		}
		b.owners[g] = p
	}
	return g, b.register(as.ID, g)
}

func (b *Build) artifact(s ArtifactSpec) (*decl.Artifact, error) {
	a := decl.NewArtifact(b.Project)
	if err := b.apply(setters{
		{s.File, a.SetFile},
		{s.Type, a.SetType},
		{s.Classifier, a.SetClassifier},
		{s.Pom, a.SetPomRef},
		{s.RefID, a.SetRefID},
	}); err != nil {
		return nil, err
	}
	return a, b.register(s.ID, a)
}

func (b *Build) pomRef(id string) (*decl.Pom, error) {
	v, ok := b.Project.Reference(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "reference %q not found", id)
	}
	p, ok := v.(*decl.Pom)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "reference %q is not a pom", id)
	}
	return p, nil
}

func boolString(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
