package coord

import (
	"regexp"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Default field values applied when a coordinate omits them.
const (
	DefaultType  = "jar"
	DefaultScope = "compile"
	Wildcard     = "*"
)

// Dependency scopes understood by the resolver.
const (
	ScopeCompile  = "compile"
	ScopeProvided = "provided"
	ScopeRuntime  = "runtime"
	ScopeTest     = "test"
	ScopeSystem   = "system"
)

var dependencyRe = regexp.MustCompile(`^([^: ]+):([^: ]+):([^: ]+)((:([^: ]+)(:([^: ]+))?)?:([^: ]+))?$`)

// Dependency identifies a declared dependency.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
	Classifier string
	Scope      string
}

// ParseDependency parses groupId:artifactId:version[[:type[:classifier]]:scope].
// The last optional segment is always the scope, so "g:a:1.0:test" declares a
// test-scoped jar.
func ParseDependency(s string) (Dependency, error) {
	m := dependencyRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Dependency{}, errors.New(errors.ErrCodeInvalidFormat,
			"bad dependency coordinates %q, expected format is <groupId>:<artifactId>:<version>[[:<type>[:<classifier>]]:<scope>]", s)
	}
	return Dependency{
		GroupID:    m[1],
		ArtifactID: m[2],
		Version:    m[3],
		Type:       m[6],
		Classifier: m[8],
		Scope:      m[9],
	}.WithDefaults(), nil
}

// WithDefaults returns a copy with empty type and scope defaulted.
func (d Dependency) WithDefaults() Dependency {
	if d.Type == "" {
		d.Type = DefaultType
	}
	if d.Scope == "" {
		d.Scope = DefaultScope
	}
	return d
}

// VersionlessKey returns groupId:artifactId:type[:classifier], the identity
// used to detect duplicate declarations.
func (d Dependency) VersionlessKey() string {
	typ := d.Type
	if typ == "" {
		typ = DefaultType
	}
	key := d.GroupID + ":" + d.ArtifactID + ":" + typ
	if d.Classifier != "" {
		key += ":" + d.Classifier
	}
	return key
}

// String returns the coordinates in the form accepted by [ParseDependency].
func (d Dependency) String() string {
	d = d.WithDefaults()
	s := d.GroupID + ":" + d.ArtifactID + ":" + d.Version + ":" + d.Type
	if d.Classifier != "" {
		s += ":" + d.Classifier
	}
	return s + ":" + d.Scope
}

// Artifact returns the artifact this dependency resolves to, mapping the
// packaging type onto its file extension and implied classifier.
func (d Dependency) Artifact() Artifact {
	d = d.WithDefaults()
	cls := d.Classifier
	if cls == "" {
		cls = TypeClassifier(d.Type)
	}
	return Artifact{
		GroupID:    d.GroupID,
		ArtifactID: d.ArtifactID,
		Extension:  TypeExtension(d.Type),
		Classifier: cls,
		Version:    d.Version,
	}
}

// NormalizeCoordinate converts filename-safe coordinates to Maven format.
// Since colons are not allowed in filenames on every platform, underscores can
// be used as a substitute: "groupId_artifactId" becomes "groupId:artifactId"
// when no colon is present. Only the last underscore is converted.
func NormalizeCoordinate(s string) string {
	if strings.Contains(s, ":") {
		return s
	}
	if idx := strings.LastIndex(s, "_"); idx != -1 {
		return s[:idx] + ":" + s[idx+1:]
	}
	return s
}
