package decl

import (
	"github.com/matzehuels/mvnkit/pkg/coord"
)

const kindExclusion = "exclusion"

// Exclusion declares an exclusion pattern.
type Exclusion struct {
	reference

	groupID    string
	artifactID string
	extension  string
	classifier string
	coords     bool
}

// NewExclusion creates an empty exclusion declaration.
func NewExclusion(p *Project) *Exclusion {
	return &Exclusion{reference: reference{project: p}}
}

func (e *Exclusion) hasCoordinates() bool {
	return e.coords || e.groupID != "" || e.artifactID != "" || e.extension != "" || e.classifier != ""
}

// SetRefID makes e an alias of the exclusion registered under id.
func (e *Exclusion) SetRefID(id string) error {
	return e.setRef(kindExclusion, e, id, e.hasCoordinates())
}

// SetCoords sets all fields from groupId[:artifactId[:extension[:classifier]]].
func (e *Exclusion) SetCoords(s string) error {
	if err := e.checkAttributesAllowed(kindExclusion); err != nil {
		return err
	}
	if e.hasCoordinates() {
		return ambiguousCoords(kindExclusion)
	}
	c, err := coord.ParseExclusion(s)
	if err != nil {
		return err
	}
	e.groupID, e.artifactID, e.extension, e.classifier = c.GroupID, c.ArtifactID, c.Extension, c.Classifier
	e.coords = true
	return nil
}

func (e *Exclusion) setField(field *string, value string) error {
	if err := e.checkAttributesAllowed(kindExclusion); err != nil {
		return err
	}
	if e.coords || *field != "" {
		return ambiguousCoords(kindExclusion)
	}
	*field = value
	return nil
}

// SetGroupID sets the groupId pattern.
func (e *Exclusion) SetGroupID(v string) error { return e.setField(&e.groupID, v) }

// SetArtifactID sets the artifactId pattern.
func (e *Exclusion) SetArtifactID(v string) error { return e.setField(&e.artifactID, v) }

// SetExtension sets the extension pattern.
func (e *Exclusion) SetExtension(v string) error { return e.setField(&e.extension, v) }

// SetClassifier sets the classifier pattern.
func (e *Exclusion) SetClassifier(v string) error { return e.setField(&e.classifier, v) }

func (e *Exclusion) target() (*Exclusion, error) {
	return follow(e, e.project, kindExclusion)
}

// Coordinate returns the exclusion with wildcard defaults.
func (e *Exclusion) Coordinate() (coord.Exclusion, error) {
	t, err := e.target()
	if err != nil {
		return coord.Exclusion{}, err
	}
	return coord.Exclusion{
		GroupID:    t.groupID,
		ArtifactID: t.artifactID,
		Extension:  t.extension,
		Classifier: t.classifier,
	}.WithDefaults(), nil
}

// Validate requires a groupId.
func (e *Exclusion) Validate() error {
	t, err := e.target()
	if err != nil {
		return err
	}
	if t.groupID == "" {
		return missing(kindExclusion, "groupId")
	}
	return nil
}
