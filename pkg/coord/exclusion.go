package coord

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

var exclusionRe = regexp.MustCompile(`^([^: ]+)(:([^: ]+)(:([^: ]+)(:([^: ]+))?)?)?$`)

// Exclusion removes matching artifacts from a dependency's closure.
// Each field is a pattern; "*" matches anything.
type Exclusion struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string
}

// ParseExclusion parses groupId[:artifactId[:extension[:classifier]]].
// Omitted fields default to the wildcard.
func ParseExclusion(s string) (Exclusion, error) {
	m := exclusionRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Exclusion{}, errors.New(errors.ErrCodeInvalidFormat,
			"bad exclusion coordinates %q, expected format is <groupId>[:<artifactId>[:<extension>[:<classifier>]]]", s)
	}
	return Exclusion{
		GroupID:    m[1],
		ArtifactID: m[3],
		Extension:  m[5],
		Classifier: m[7],
	}.WithDefaults(), nil
}

// WithDefaults returns a copy with every empty field set to the wildcard.
func (e Exclusion) WithDefaults() Exclusion {
	for _, f := range []*string{&e.GroupID, &e.ArtifactID, &e.Extension, &e.Classifier} {
		if *f == "" {
			*f = Wildcard
		}
	}
	return e
}

// String returns groupId:artifactId:extension:classifier.
func (e Exclusion) String() string {
	return e.GroupID + ":" + e.ArtifactID + ":" + e.Extension + ":" + e.Classifier
}

// Matches reports whether a falls under this exclusion. Fields support glob
// patterns such as "org.apache.*" in addition to the plain wildcard.
func (e Exclusion) Matches(a Artifact) bool {
	e = e.WithDefaults()
	return matchField(e.GroupID, a.GroupID) &&
		matchField(e.ArtifactID, a.ArtifactID) &&
		matchField(e.Extension, a.Extension) &&
		matchField(e.Classifier, a.Classifier)
}

// MatchesDependency is Matches applied to the artifact d resolves to.
func (e Exclusion) MatchesDependency(d Dependency) bool {
	return e.Matches(d.Artifact())
}

var globs sync.Map // pattern -> glob.Glob

func matchField(pattern, value string) bool {
	if pattern == Wildcard {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[{") {
		return pattern == value
	}
	if g, ok := globs.Load(pattern); ok {
		return g.(glob.Glob).Match(value)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return pattern == value
	}
	globs.Store(pattern, g)
	return g.Match(value)
}
