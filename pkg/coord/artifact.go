package coord

import (
	"regexp"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

const snapshot = "SNAPSHOT"

var (
	artifactRe          = regexp.MustCompile(`^([^: ]+):([^: ]+)(:([^: ]*)(:([^: ]+))?)?:([^: ]+)$`)
	snapshotTimestampRe = regexp.MustCompile(`^(.*-)?([0-9]{8}\.[0-9]{6}-[0-9]+)$`)
)

// Artifact identifies a concrete file in a repository.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string
	Version    string
}

// ParseArtifact parses groupId:artifactId[:extension[:classifier]]:version.
func ParseArtifact(s string) (Artifact, error) {
	m := artifactRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Artifact{}, errors.New(errors.ErrCodeInvalidFormat,
			"bad artifact coordinates %q, expected format is <groupId>:<artifactId>[:<extension>[:<classifier>]]:<version>", s)
	}
	ext := m[4]
	if ext == "" {
		ext = DefaultType
	}
	return Artifact{
		GroupID:    m[1],
		ArtifactID: m[2],
		Extension:  ext,
		Classifier: m[6],
		Version:    m[7],
	}, nil
}

// String returns the normalized key groupId:artifactId:extension[:classifier]:version.
func (a Artifact) String() string {
	return a.versionless() + ":" + a.Version
}

func (a Artifact) versionless() string {
	s := a.GroupID + ":" + a.ArtifactID + ":" + a.Extension
	if a.Classifier != "" {
		s += ":" + a.Classifier
	}
	return s
}

// VersionlessID returns groupId:artifactId:classifier:extension. Two artifacts
// with the same VersionlessID differ at most in their version.
func (a Artifact) VersionlessID() string {
	return a.GroupID + ":" + a.ArtifactID + ":" + a.Classifier + ":" + a.Extension
}

// WithVersion returns a copy with the version replaced.
func (a Artifact) WithVersion(v string) Artifact {
	a.Version = v
	return a
}

// IsSnapshot reports whether the version is a SNAPSHOT or a timestamped snapshot.
func (a Artifact) IsSnapshot() bool {
	return strings.HasSuffix(a.Version, snapshot) || snapshotTimestampRe.MatchString(a.Version)
}

// BaseVersion returns the version with a snapshot timestamp replaced by
// "SNAPSHOT", e.g. "1.0-20240101.120000-3" becomes "1.0-SNAPSHOT".
func (a Artifact) BaseVersion() string {
	m := snapshotTimestampRe.FindStringSubmatch(a.Version)
	if m == nil {
		return a.Version
	}
	return m[1] + snapshot
}
