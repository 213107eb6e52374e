package decl

import (
	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

const kindDependency = "dependency"

// Dependency declares a single dependency.
type Dependency struct {
	reference

	groupID    string
	artifactID string
	version    string
	typ        string
	classifier string
	scope      string
	systemPath string
	coords     bool

	exclusions []*Exclusion
}

// NewDependency creates an empty dependency declaration.
func NewDependency(p *Project) *Dependency {
	return &Dependency{reference: reference{project: p}}
}

func (d *Dependency) node() {}

func (d *Dependency) hasCoordinates() bool {
	return d.coords || d.groupID != "" || d.artifactID != "" || d.version != "" ||
		d.typ != "" || d.classifier != "" || d.scope != ""
}

// SetRefID makes d an alias of the dependency registered under id.
func (d *Dependency) SetRefID(id string) error {
	if len(d.exclusions) > 0 {
		return errors.New(errors.ErrCodeInvalidReference,
			"%s: you must not specify nested elements when using refid", kindDependency)
	}
	return d.setRef(kindDependency, d, id, d.hasCoordinates() || d.systemPath != "")
}

// SetCoords sets all coordinates from
// groupId:artifactId:version[[:type[:classifier]]:scope].
func (d *Dependency) SetCoords(s string) error {
	if err := d.checkAttributesAllowed(kindDependency); err != nil {
		return err
	}
	if d.hasCoordinates() {
		return ambiguousCoords(kindDependency)
	}
	c, err := coord.ParseDependency(s)
	if err != nil {
		return err
	}
	d.groupID, d.artifactID, d.version = c.GroupID, c.ArtifactID, c.Version
	d.typ, d.classifier, d.scope = c.Type, c.Classifier, c.Scope
	d.coords = true
	return nil
}

func (d *Dependency) setField(field *string, value string) error {
	if err := d.checkAttributesAllowed(kindDependency); err != nil {
		return err
	}
	if d.coords || *field != "" {
		return ambiguousCoords(kindDependency)
	}
	*field = value
	return nil
}

// SetGroupID sets the groupId.
func (d *Dependency) SetGroupID(v string) error { return d.setField(&d.groupID, v) }

// SetArtifactID sets the artifactId.
func (d *Dependency) SetArtifactID(v string) error { return d.setField(&d.artifactID, v) }

// SetVersion sets the version.
func (d *Dependency) SetVersion(v string) error { return d.setField(&d.version, v) }

// SetType sets the packaging type (default "jar").
func (d *Dependency) SetType(v string) error { return d.setField(&d.typ, v) }

// SetClassifier sets the classifier.
func (d *Dependency) SetClassifier(v string) error { return d.setField(&d.classifier, v) }

// SetScope sets the scope (default "compile").
func (d *Dependency) SetScope(v string) error { return d.setField(&d.scope, v) }

// SetSystemPath sets the file of a system-scoped dependency.
func (d *Dependency) SetSystemPath(path string) error {
	if err := d.checkAttributesAllowed(kindDependency); err != nil {
		return err
	}
	d.systemPath = path
	return nil
}

// AddExclusion adds a nested exclusion.
func (d *Dependency) AddExclusion(e *Exclusion) error {
	if err := d.checkChildrenAllowed(kindDependency); err != nil {
		return err
	}
	d.exclusions = append(d.exclusions, e)
	return nil
}

func (d *Dependency) target() (*Dependency, error) {
	return follow(d, d.project, kindDependency)
}

// Coordinate returns the dependency's coordinates with defaults applied.
func (d *Dependency) Coordinate() (coord.Dependency, error) {
	t, err := d.target()
	if err != nil {
		return coord.Dependency{}, err
	}
	return coord.Dependency{
		GroupID:    t.groupID,
		ArtifactID: t.artifactID,
		Version:    t.version,
		Type:       t.typ,
		Classifier: t.classifier,
		Scope:      t.scope,
	}.WithDefaults(), nil
}

// VersionlessKey returns groupId:artifactId:type[:classifier].
func (d *Dependency) VersionlessKey() (string, error) {
	c, err := d.Coordinate()
	if err != nil {
		return "", err
	}
	return c.VersionlessKey(), nil
}

// SystemPath returns the resolved system path, if any.
func (d *Dependency) SystemPath() (string, error) {
	t, err := d.target()
	if err != nil {
		return "", err
	}
	return t.project.Path(t.systemPath), nil
}

// Exclusions returns the dependency's exclusions.
func (d *Dependency) Exclusions() ([]coord.Exclusion, error) {
	t, err := d.target()
	if err != nil {
		return nil, err
	}
	return exclusionCoords(t.exclusions)
}

// Validate checks that the dependency is fully specified.
func (d *Dependency) Validate() error {
	t, err := d.target()
	if err != nil {
		return err
	}
	switch {
	case t.groupID == "":
		return missing(kindDependency, "groupId")
	case t.artifactID == "":
		return missing(kindDependency, "artifactId")
	case t.version == "":
		return missing(kindDependency, "version")
	}
	if t.scope == coord.ScopeSystem && t.systemPath == "" {
		return missing("system-scoped dependency", "systemPath")
	}
	if t.systemPath != "" && t.scope != coord.ScopeSystem {
		return errors.New(errors.ErrCodeInvalidDeclaration,
			"systemPath is only allowed for system-scoped dependency %s:%s", t.groupID, t.artifactID)
	}
	for _, e := range t.exclusions {
		if err := e.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDeclaration, err, "dependency %s:%s", t.groupID, t.artifactID)
		}
	}
	return nil
}
