// Package pom reads Maven POM files.
//
// Only the fields a build needs to declare and publish artifacts are read:
// coordinates, packaging, descriptive metadata, properties and the declared
// dependencies. Missing groupId and version are taken from the parent
// declaration; no further inheritance, profile activation or interpolation is
// performed.
package pom

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Model is the subset of a POM read by mvnkit.
type Model struct {
	GroupID      string       `xml:"groupId"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version"`
	Packaging    string       `xml:"packaging"`
	Name         string       `xml:"name"`
	Description  string       `xml:"description"`
	URL          string       `xml:"url"`
	Parent       *Parent      `xml:"parent"`
	Dependencies []Dependency `xml:"dependencies>dependency"`
	Props        Properties   `xml:"properties"`
}

// Parent references the parent POM.
type Parent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// Dependency is a <dependency> element.
type Dependency struct {
	GroupID    string      `xml:"groupId"`
	ArtifactID string      `xml:"artifactId"`
	Version    string      `xml:"version"`
	Type       string      `xml:"type"`
	Classifier string      `xml:"classifier"`
	Scope      string      `xml:"scope"`
	Optional   string      `xml:"optional"`
	SystemPath string      `xml:"systemPath"`
	Exclusions []Exclusion `xml:"exclusions>exclusion"`
}

// Exclusion is an <exclusion> element.
type Exclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// Properties holds the free-form <properties> element.
type Properties map[string]string

// UnmarshalXML collects every child element as a key/value pair.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*p = Properties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			(*p)[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			return nil
		}
	}
}

// Read parses the POM at path.
func Read(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pom %s", path)
		}
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "pom %s", path)
	}
	return m, nil
}

// Parse decodes POM XML and applies parent defaults.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Parent != nil {
		if m.GroupID == "" {
			m.GroupID = m.Parent.GroupID
		}
		if m.Version == "" {
			m.Version = m.Parent.Version
		}
	}
	if m.Packaging == "" {
		m.Packaging = coord.DefaultType
	}
	if m.GroupID == "" || m.ArtifactID == "" || m.Version == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"pom is missing coordinates (groupId=%q, artifactId=%q, version=%q)", m.GroupID, m.ArtifactID, m.Version)
	}
	return &m, nil
}

// Artifact returns the POM file's own artifact (extension "pom").
func (m *Model) Artifact() coord.Artifact {
	return coord.Artifact{
		GroupID:    m.GroupID,
		ArtifactID: m.ArtifactID,
		Extension:  "pom",
		Version:    m.Version,
	}
}

// MainArtifact returns the artifact produced by the POM's packaging.
func (m *Model) MainArtifact() coord.Artifact {
	return coord.Dependency{
		GroupID:    m.GroupID,
		ArtifactID: m.ArtifactID,
		Version:    m.Version,
		Type:       m.Packaging,
	}.Artifact()
}

// ResolvableDependencies returns the declared dependencies that can be used
// as-is. Entries whose coordinates still contain unresolved "${...}"
// expressions or lack a version are skipped, as are optional dependencies.
func (m *Model) ResolvableDependencies() []Dependency {
	var out []Dependency
	for _, d := range m.Dependencies {
		if d.Optional == "true" || d.Version == "" {
			continue
		}
		if unresolved(d.GroupID) || unresolved(d.ArtifactID) || unresolved(d.Version) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// DependencyCoords returns the resolvable dependencies as coordinates.
func (m *Model) DependencyCoords() []coord.Dependency {
	var out []coord.Dependency
	for _, d := range m.ResolvableDependencies() {
		out = append(out, d.Coordinate())
	}
	return out
}

// Coordinate returns the dependency's defaulted coordinates.
func (d Dependency) Coordinate() coord.Dependency {
	return coord.Dependency{
		GroupID:    d.GroupID,
		ArtifactID: d.ArtifactID,
		Version:    d.Version,
		Type:       d.Type,
		Classifier: d.Classifier,
		Scope:      d.Scope,
	}.WithDefaults()
}

// ExclusionCoords returns the dependency's exclusions with wildcard defaults.
func (d Dependency) ExclusionCoords() []coord.Exclusion {
	out := make([]coord.Exclusion, 0, len(d.Exclusions))
	for _, e := range d.Exclusions {
		out = append(out, coord.Exclusion{GroupID: e.GroupID, ArtifactID: e.ArtifactID}.WithDefaults())
	}
	return out
}

// Properties returns the POM's exported properties: pom.groupId,
// pom.artifactId, pom.version, pom.packaging, pom.name, pom.description,
// pom.url, plus every <properties> entry prefixed with "pom.properties.".
func (m *Model) Properties() map[string]string {
	props := map[string]string{
		"pom.groupId":     m.GroupID,
		"pom.artifactId":  m.ArtifactID,
		"pom.version":     m.Version,
		"pom.packaging":   m.Packaging,
		"pom.name":        m.Name,
		"pom.description": m.Description,
		"pom.url":         m.URL,
	}
	for k, v := range m.Props {
		props["pom.properties."+k] = v
	}
	return props
}

func unresolved(s string) bool {
	return strings.Contains(s, "${")
}
