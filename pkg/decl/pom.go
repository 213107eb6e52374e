package decl

import (
	"regexp"
	"strings"
	"sync"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/pom"
)

const kindPom = "pom"

var pomCoordsRe = regexp.MustCompile(`^([^: ]+):([^: ]+):([^: ]+)$`)

// Pom declares a POM either by file or by coordinates.
type Pom struct {
	reference

	file       string
	groupID    string
	artifactID string
	version    string
	coords     bool

	once  sync.Once
	model *pom.Model
	err   error
}

// NewPom creates an empty POM declaration.
func NewPom(p *Project) *Pom {
	return &Pom{reference: reference{project: p}}
}

func (p *Pom) hasCoordinates() bool {
	return p.coords || p.groupID != "" || p.artifactID != "" || p.version != ""
}

// SetRefID makes p an alias of the POM registered under id.
func (p *Pom) SetRefID(id string) error {
	return p.setRef(kindPom, p, id, p.file != "" || p.hasCoordinates())
}

// SetFile reads the POM from path.
func (p *Pom) SetFile(path string) error {
	if err := p.checkAttributesAllowed(kindPom); err != nil {
		return err
	}
	if p.hasCoordinates() {
		return fileAndCoords()
	}
	p.file = path
	return nil
}

// SetCoords sets groupId:artifactId:version.
func (p *Pom) SetCoords(s string) error {
	if err := p.checkAttributesAllowed(kindPom); err != nil {
		return err
	}
	if p.file != "" {
		return fileAndCoords()
	}
	if p.hasCoordinates() {
		return ambiguousCoords(kindPom)
	}
	m := pomCoordsRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return errors.New(errors.ErrCodeInvalidFormat,
			"bad pom coordinates %q, expected format is <groupId>:<artifactId>:<version>", s)
	}
	p.groupID, p.artifactID, p.version = m[1], m[2], m[3]
	p.coords = true
	return nil
}

func (p *Pom) setField(field *string, value string) error {
	if err := p.checkAttributesAllowed(kindPom); err != nil {
		return err
	}
	if p.file != "" {
		return fileAndCoords()
	}
	if p.coords || *field != "" {
		return ambiguousCoords(kindPom)
	}
	*field = value
	return nil
}

// SetGroupID sets the groupId.
func (p *Pom) SetGroupID(v string) error { return p.setField(&p.groupID, v) }

// SetArtifactID sets the artifactId.
func (p *Pom) SetArtifactID(v string) error { return p.setField(&p.artifactID, v) }

// SetVersion sets the version.
func (p *Pom) SetVersion(v string) error { return p.setField(&p.version, v) }

func (p *Pom) target() (*Pom, error) {
	return follow(p, p.project, kindPom)
}

// File returns the POM file resolved against the project, or "" for a POM
// declared by coordinates.
func (p *Pom) File() (string, error) {
	t, err := p.target()
	if err != nil {
		return "", err
	}
	return t.project.Path(t.file), nil
}

// Validate requires either a file or a complete set of coordinates.
func (p *Pom) Validate() error {
	t, err := p.target()
	if err != nil {
		return err
	}
	if t.file != "" {
		return nil
	}
	switch {
	case t.groupID == "":
		return missing(kindPom, "groupId")
	case t.artifactID == "":
		return missing(kindPom, "artifactId")
	case t.version == "":
		return missing(kindPom, "version")
	}
	return nil
}

// Model returns the POM model. A file is read once; a POM declared by
// coordinates yields a model with "pom" packaging.
func (p *Pom) Model() (*pom.Model, error) {
	t, err := p.target()
	if err != nil {
		return nil, err
	}
	t.once.Do(func() {
		if t.file != "" {
			t.model, t.err = pom.Read(t.project.Path(t.file))
			return
		}
		if t.err = t.Validate(); t.err != nil {
			return
		}
		t.model = &pom.Model{
			GroupID:    t.groupID,
			ArtifactID: t.artifactID,
			Version:    t.version,
			Packaging:  "pom",
		}
	})
	return t.model, t.err
}

// Artifact returns the POM's own artifact.
func (p *Pom) Artifact() (coord.Artifact, error) {
	m, err := p.Model()
	if err != nil {
		return coord.Artifact{}, err
	}
	return m.Artifact(), nil
}

func fileAndCoords() error {
	return errors.New(errors.ErrCodeConflictingSources,
		"you must not specify both a pom file and pom coordinates")
}
