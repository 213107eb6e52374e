package decl

import (
	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

const (
	kindArtifact  = "artifact"
	kindArtifacts = "artifacts"
)

// Artifact declares a file published alongside a POM.
type Artifact struct {
	reference

	file       string
	typ        string
	classifier string
	pomRef     string
}

// NewArtifact creates an empty artifact declaration.
func NewArtifact(p *Project) *Artifact {
	return &Artifact{reference: reference{project: p}}
}

// SetRefID makes a an alias of the artifact registered under id.
func (a *Artifact) SetRefID(id string) error {
	configured := a.file != "" || a.typ != "" || a.classifier != "" || a.pomRef != ""
	return a.setRef(kindArtifact, a, id, configured)
}

// SetFile sets the artifact's file.
func (a *Artifact) SetFile(path string) error {
	if err := a.checkAttributesAllowed(kindArtifact); err != nil {
		return err
	}
	a.file = path
	return nil
}

// SetType sets the packaging type (default "jar").
func (a *Artifact) SetType(typ string) error {
	if err := a.checkAttributesAllowed(kindArtifact); err != nil {
		return err
	}
	a.typ = typ
	return nil
}

// SetClassifier sets the classifier.
func (a *Artifact) SetClassifier(c string) error {
	if err := a.checkAttributesAllowed(kindArtifact); err != nil {
		return err
	}
	a.classifier = c
	return nil
}

// SetPomRef names the POM the artifact belongs to, overriding the POM of
// the install or deploy it is part of.
func (a *Artifact) SetPomRef(id string) error {
	if err := a.checkAttributesAllowed(kindArtifact); err != nil {
		return err
	}
	if err := errors.ValidateRefID(id); err != nil {
		return err
	}
	a.pomRef = id
	return nil
}

func (a *Artifact) target() (*Artifact, error) {
	return follow(a, a.project, kindArtifact)
}

// Type returns the packaging type with its default applied.
func (a *Artifact) Type() (string, error) {
	t, err := a.target()
	if err != nil {
		return "", err
	}
	if t.typ == "" {
		return coord.DefaultType, nil
	}
	return t.typ, nil
}

// Classifier returns the declared classifier, or the one implied by the type.
func (a *Artifact) Classifier() (string, error) {
	t, err := a.target()
	if err != nil {
		return "", err
	}
	if t.classifier != "" {
		return t.classifier, nil
	}
	typ, _ := t.Type()
	return coord.TypeClassifier(typ), nil
}

// File returns the artifact's file resolved against the project.
func (a *Artifact) File() (string, error) {
	t, err := a.target()
	if err != nil {
		return "", err
	}
	return t.project.Path(t.file), nil
}

// Pom returns the POM named by SetPomRef, or nil.
func (a *Artifact) Pom() (*Pom, error) {
	t, err := a.target()
	if err != nil {
		return nil, err
	}
	if t.pomRef == "" {
		return nil, nil
	}
	v, ok := t.project.Reference(t.pomRef)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "reference %q not found", t.pomRef)
	}
	p, ok := v.(*Pom)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "reference %q is not a pom", t.pomRef)
	}
	return p, nil
}

// Coordinate returns the artifact's coordinates under the given POM.
func (a *Artifact) Coordinate(owner coord.Artifact) (coord.Artifact, error) {
	typ, err := a.Type()
	if err != nil {
		return coord.Artifact{}, err
	}
	cls, err := a.Classifier()
	if err != nil {
		return coord.Artifact{}, err
	}
	return coord.Artifact{
		GroupID:    owner.GroupID,
		ArtifactID: owner.ArtifactID,
		Extension:  coord.TypeExtension(typ),
		Classifier: cls,
		Version:    owner.Version,
	}, nil
}

// Validate requires a file.
func (a *Artifact) Validate() error {
	t, err := a.target()
	if err != nil {
		return err
	}
	if t.file == "" {
		return missing(kindArtifact, "file")
	}
	return nil
}

// Artifacts is a group of artifact declarations, possibly nested.
type Artifacts struct {
	reference

	children []any
}

// NewArtifacts creates an empty artifact group.
func NewArtifacts(p *Project) *Artifacts {
	return &Artifacts{reference: reference{project: p}}
}

// SetRefID makes g an alias of the group registered under id.
func (g *Artifacts) SetRefID(id string) error {
	return g.setRef(kindArtifacts, g, id, len(g.children) > 0)
}

// AddArtifact appends an artifact.
func (g *Artifacts) AddArtifact(a *Artifact) error {
	if err := g.checkChildrenAllowed(kindArtifacts); err != nil {
		return err
	}
	g.children = append(g.children, a)
	return nil
}

// AddArtifacts appends a nested group. A group cannot contain itself.
func (g *Artifacts) AddArtifacts(n *Artifacts) error {
	if err := g.checkChildrenAllowed(kindArtifacts); err != nil {
		return err
	}
	if n == g {
		return errors.New(errors.ErrCodeInvalidDeclaration, "you must not reference the artifacts group itself")
	}
	g.children = append(g.children, n)
	return nil
}

func (g *Artifacts) target() (*Artifacts, error) {
	return follow(g, g.project, kindArtifacts)
}

// All returns every artifact in the group and its nested groups, in
// declaration order.
func (g *Artifacts) All() ([]*Artifact, error) {
	return g.all(map[*Artifacts]bool{})
}

func (g *Artifacts) all(visiting map[*Artifacts]bool) ([]*Artifact, error) {
	t, err := g.target()
	if err != nil {
		return nil, err
	}
	if visiting[t] {
		return nil, errors.New(errors.ErrCodeInvalidReference, "circular reference between artifact groups")
	}
	visiting[t] = true
	defer delete(visiting, t)

	var out []*Artifact
	for _, c := range t.children {
		switch c := c.(type) {
		case *Artifact:
			out = append(out, c)
		case *Artifacts:
			nested, err := c.all(visiting)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}
	return out, nil
}

// Validate checks every artifact, rejects artifacts of type "pom" and
// rejects two artifacts sharing a type and classifier.
func (g *Artifacts) Validate() error {
	all, err := g.All()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(all))
	for _, a := range all {
		if err := a.Validate(); err != nil {
			return err
		}
		typ, err := a.Type()
		if err != nil {
			return err
		}
		if typ == "pom" {
			return errors.New(errors.ErrCodeInvalidDeclaration,
				"you must not deploy or install an <artifact> with type=pom, use the pom element instead")
		}
		cls, err := a.Classifier()
		if err != nil {
			return err
		}
		key := typ + ":" + cls
		if seen[key] {
			return errors.New(errors.ErrCodeDuplicateArtifact,
				"you must not specify two artifacts with the same type (%s) and classifier (%s)", typ, cls)
		}
		seen[key] = true
	}
	return nil
}
