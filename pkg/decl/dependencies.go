package decl

import (
	"bufio"
	"os"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

const kindDependencies = "dependencies"

// node is a child of a Dependencies group: a *Dependency or a nested
// *Dependencies.
type node interface {
	node()
}

// Dependencies is a group of dependency declarations. A group is backed by
// at most one external source (a file of coordinate lines or a POM) and a
// backed group has no nested children.
type Dependencies struct {
	reference

	file       string
	pom        *Pom
	pomRef     string
	children   []node
	exclusions []*Exclusion
}

// NewDependencies creates an empty dependency group.
func NewDependencies(p *Project) *Dependencies {
	return &Dependencies{reference: reference{project: p}}
}

func (g *Dependencies) node() {}

func (g *Dependencies) hasPom() bool { return g.pom != nil || g.pomRef != "" }

// SetRefID makes g an alias of the group registered under id.
func (g *Dependencies) SetRefID(id string) error {
	configured := g.file != "" || g.hasPom() || len(g.children) > 0 || len(g.exclusions) > 0
	return g.setRef(kindDependencies, g, id, configured)
}

// SetFile backs the group with a file of coordinate lines. Blank lines and
// lines starting with '#' are ignored, lines starting with '-' are
// exclusions.
func (g *Dependencies) SetFile(path string) error {
	if err := g.checkAttributesAllowed(kindDependencies); err != nil {
		return err
	}
	if g.hasPom() {
		return bothSources()
	}
	if len(g.children) > 0 {
		return sourceWithChildren()
	}
	g.file = path
	return nil
}

// SetPom backs the group with the dependencies of a POM.
func (g *Dependencies) SetPom(p *Pom) error {
	if err := g.checkChildrenAllowed(kindDependencies); err != nil {
		return err
	}
	if g.file != "" {
		return bothSources()
	}
	if g.hasPom() {
		return errors.New(errors.ErrCodeConflictingSources, "you must not specify multiple <pom> elements")
	}
	if len(g.children) > 0 {
		return sourceWithChildren()
	}
	g.pom = p
	return nil
}

// SetPomRef backs the group with the POM registered under id.
func (g *Dependencies) SetPomRef(id string) error {
	if err := errors.ValidateRefID(id); err != nil {
		return err
	}
	if err := g.checkAttributesAllowed(kindDependencies); err != nil {
		return err
	}
	if g.file != "" {
		return bothSources()
	}
	if g.hasPom() {
		return errors.New(errors.ErrCodeConflictingSources, "you must not specify multiple <pom> elements")
	}
	if len(g.children) > 0 {
		return sourceWithChildren()
	}
	g.pomRef = id
	return nil
}

// AddDependency appends a leaf dependency.
func (g *Dependencies) AddDependency(d *Dependency) error {
	return g.addChild(d)
}

// AddDependencies appends a nested group. A group cannot contain itself.
func (g *Dependencies) AddDependencies(n *Dependencies) error {
	if n == g {
		return errors.New(errors.ErrCodeInvalidDeclaration, "you must not reference the dependencies group itself")
	}
	return g.addChild(n)
}

func (g *Dependencies) addChild(n node) error {
	if err := g.checkChildrenAllowed(kindDependencies); err != nil {
		return err
	}
	if g.file != "" || g.hasPom() {
		return sourceWithChildren()
	}
	g.children = append(g.children, n)
	return nil
}

// AddExclusion adds an exclusion applied to everything the group collects.
func (g *Dependencies) AddExclusion(e *Exclusion) error {
	if err := g.checkChildrenAllowed(kindDependencies); err != nil {
		return err
	}
	g.exclusions = append(g.exclusions, e)
	return nil
}

// File returns the backing file resolved against the project, if any.
func (g *Dependencies) File() (string, error) {
	t, err := g.target()
	if err != nil {
		return "", err
	}
	return t.project.Path(t.file), nil
}

// Pom returns the backing POM, if any.
func (g *Dependencies) Pom() (*Pom, error) {
	t, err := g.target()
	if err != nil {
		return nil, err
	}
	return t.resolvePom()
}

func (g *Dependencies) resolvePom() (*Pom, error) {
	if g.pom != nil {
		return g.pom, nil
	}
	if g.pomRef == "" {
		return nil, nil
	}
	v, ok := g.project.Reference(g.pomRef)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "reference %q not found", g.pomRef)
	}
	p, ok := v.(*Pom)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "reference %q is not a pom", g.pomRef)
	}
	return p, nil
}

// Children returns the direct children in declaration order. Each element is
// either a *Dependency or a *Dependencies.
func (g *Dependencies) Children() ([]any, error) {
	t, err := g.target()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(t.children))
	for i, c := range t.children {
		out[i] = c
	}
	return out, nil
}

// Exclusions returns the group's own exclusions.
func (g *Dependencies) Exclusions() ([]coord.Exclusion, error) {
	t, err := g.target()
	if err != nil {
		return nil, err
	}
	return exclusionCoords(t.exclusions)
}

func (g *Dependencies) target() (*Dependencies, error) {
	return follow(g, g.project, kindDependencies)
}

// Validate checks the group and everything nested in it.
func (g *Dependencies) Validate() error {
	return g.validate(map[*Dependencies]bool{})
}

func (g *Dependencies) validate(visiting map[*Dependencies]bool) error {
	t, err := g.target()
	if err != nil {
		return err
	}
	if visiting[t] {
		return errors.New(errors.ErrCodeInvalidReference, "circular reference between dependency groups")
	}
	visiting[t] = true
	defer delete(visiting, t)

	if t.file != "" && t.hasPom() {
		return bothSources()
	}
	if (t.file != "" || t.hasPom()) && len(t.children) > 0 {
		return sourceWithChildren()
	}
	p, err := t.resolvePom()
	if err != nil {
		return err
	}
	if p != nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, e := range t.exclusions {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	seen := make(map[string]string)
	for _, c := range t.children {
		switch c := c.(type) {
		case *Dependency:
			if err := c.Validate(); err != nil {
				return err
			}
			dc, err := c.Coordinate()
			if err != nil {
				return err
			}
			key := dc.VersionlessKey()
			if prev, dup := seen[key]; dup {
				return errors.New(errors.ErrCodeDuplicateDependency,
					"duplicate dependency %s with versions %s and %s", key, prev, dc.Version)
			}
			seen[key] = dc.Version
		case *Dependencies:
			if err := c.validate(visiting); err != nil {
				return err
			}
		}
	}
	return nil
}

// Entry is one collected dependency.
type Entry struct {
	Dependency coord.Dependency
	Exclusions []coord.Exclusion
	SystemPath string
}

// Collected is the flattened content of a dependency group.
type Collected struct {
	Dependencies []Entry
	// Exclusions holds every exclusion declared in the tree, including
	// '-' lines of backing files.
	Exclusions []coord.Exclusion
}

// Collect flattens the group in declaration order: backing file lines or
// POM dependencies first, then children. The group's exclusions drop every
// matching dependency collected from it. Collect does not validate, but
// groups that contain each other are reported instead of followed.
func (g *Dependencies) Collect() (*Collected, error) {
	return g.collect(map[*Dependencies]bool{})
}

func (g *Dependencies) collect(visiting map[*Dependencies]bool) (*Collected, error) {
	t, err := g.target()
	if err != nil {
		return nil, err
	}
	if visiting[t] {
		return nil, errors.New(errors.ErrCodeInvalidReference, "circular reference between dependency groups")
	}
	visiting[t] = true
	defer delete(visiting, t)

	own, err := exclusionCoords(t.exclusions)
	if err != nil {
		return nil, err
	}

	var out Collected
	if t.file != "" {
		if err := t.collectFile(&out); err != nil {
			return nil, err
		}
	}
	p, err := t.resolvePom()
	if err != nil {
		return nil, err
	}
	if p != nil {
		m, err := p.Model()
		if err != nil {
			return nil, err
		}
		for _, d := range m.ResolvableDependencies() {
			out.Dependencies = append(out.Dependencies, Entry{
				Dependency: d.Coordinate(),
				Exclusions: d.ExclusionCoords(),
				SystemPath: d.SystemPath,
			})
		}
	}
	for _, c := range t.children {
		switch c := c.(type) {
		case *Dependency:
			e, err := c.entry()
			if err != nil {
				return nil, err
			}
			out.Dependencies = append(out.Dependencies, e)
		case *Dependencies:
			nested, err := c.collect(visiting)
			if err != nil {
				return nil, err
			}
			out.Dependencies = append(out.Dependencies, nested.Dependencies...)
			out.Exclusions = append(out.Exclusions, nested.Exclusions...)
		}
	}

	if len(own) > 0 {
		kept := out.Dependencies[:0]
		for _, e := range out.Dependencies {
			if !excluded(own, e.Dependency) {
				kept = append(kept, e)
			}
		}
		out.Dependencies = kept
		out.Exclusions = append(out.Exclusions, own...)
	}
	return &out, nil
}

func (g *Dependencies) collectFile(out *Collected) error {
	path := g.project.Path(g.file)
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read dependencies file %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "-"):
			e, err := coord.ParseExclusion(line[1:])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s:%d", path, n)
			}
			out.Exclusions = append(out.Exclusions, e)
		default:
			d, err := coord.ParseDependency(line)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s:%d", path, n)
			}
			out.Dependencies = append(out.Dependencies, Entry{Dependency: d})
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "cannot read dependencies file %s", path)
	}
	return nil
}

func (d *Dependency) entry() (Entry, error) {
	c, err := d.Coordinate()
	if err != nil {
		return Entry{}, err
	}
	ex, err := d.Exclusions()
	if err != nil {
		return Entry{}, err
	}
	sp, err := d.SystemPath()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Dependency: c, Exclusions: ex, SystemPath: sp}, nil
}

func excluded(exclusions []coord.Exclusion, d coord.Dependency) bool {
	for _, e := range exclusions {
		if e.MatchesDependency(d) {
			return true
		}
	}
	return false
}

func exclusionCoords(es []*Exclusion) ([]coord.Exclusion, error) {
	out := make([]coord.Exclusion, 0, len(es))
	for _, e := range es {
		c, err := e.Coordinate()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func bothSources() error {
	return errors.New(errors.ErrCodeConflictingSources,
		"you must not specify both a dependencies file and a <pom>")
}

func sourceWithChildren() error {
	return errors.New(errors.ErrCodeConflictingSources,
		"you must not specify nested <dependency> or <dependencies> elements together with a file or <pom>")
}
