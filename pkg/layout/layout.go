// Package layout renders repository-relative paths for artifacts.
//
// A layout is a template such as
//
//	{groupIdDirs}/{artifactId}/{baseVersion}/{artifactId}-{version}-{classifier}.{extension}
//
// compiled once with [Compile] and rendered per artifact with [Layout.Render].
// Unknown placeholders are rejected at compile time. When an artifact has no
// classifier, a "-" or "_" that ends the preceding template token is dropped so
// that "maven-model-3.0-.jar" renders as "maven-model-3.0.jar".
package layout

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Recognized placeholders.
const (
	GroupID     = "{groupId}"
	GroupIDDirs = "{groupIdDirs}"
	ArtifactID  = "{artifactId}"
	Version     = "{version}"
	BaseVersion = "{baseVersion}"
	Extension   = "{extension}"
	Classifier  = "{classifier}"
)

// Well-known templates.
const (
	// Default is the Maven repository layout.
	Default = GroupIDDirs + "/" + ArtifactID + "/" + BaseVersion + "/" + ArtifactID + "-" + Version + "-" + Classifier + "." + Extension

	// Flat puts every artifact into a single directory.
	Flat = ArtifactID + "-" + Version + "-" + Classifier + "." + Extension
)

var (
	tokenRe = regexp.MustCompile(`(\{[^}]*\})|([^{]+)`)

	placeholders = []string{GroupID, GroupIDDirs, ArtifactID, Version, BaseVersion, Extension, Classifier}
)

// Layout is a compiled path template. It is immutable and safe for
// concurrent use.
type Layout struct {
	template string
	tokens   []string
}

// Compile tokenizes template into literal runs and placeholders.
func Compile(template string) (*Layout, error) {
	var tokens []string
	pos := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(template, -1) {
		if m[0] != pos {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"unterminated variable at offset %d in layout %q", pos, template)
		}
		tok := template[m[0]:m[1]]
		if m[2] >= 0 && !slices.Contains(placeholders, tok) {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"invalid variable '%s' in layout, supported variables are [%s]", tok, strings.Join(Placeholders(), ", "))
		}
		tokens = append(tokens, tok)
		pos = m[1]
	}
	if pos != len(template) {
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"unterminated variable at offset %d in layout %q", pos, template)
	}
	return &Layout{template: template, tokens: tokens}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(template string) *Layout {
	l, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return l
}

// Placeholders returns the recognized placeholders, sorted.
func Placeholders() []string {
	return slices.Sorted(slices.Values(placeholders))
}

// String returns the source template.
func (l *Layout) String() string { return l.template }

// Render returns the path of a within this layout.
func (l *Layout) Render(a coord.Artifact) string {
	buf := make([]byte, 0, 128)
	for i, tok := range l.tokens {
		switch tok {
		case GroupID:
			buf = append(buf, a.GroupID...)
		case GroupIDDirs:
			buf = append(buf, strings.ReplaceAll(a.GroupID, ".", "/")...)
		case ArtifactID:
			buf = append(buf, a.ArtifactID...)
		case Version:
			buf = append(buf, a.Version...)
		case BaseVersion:
			buf = append(buf, a.BaseVersion()...)
		case Extension:
			buf = append(buf, a.Extension...)
		case Classifier:
			if a.Classifier != "" {
				buf = append(buf, a.Classifier...)
			} else if i > 0 && endsWithSeparator(l.tokens[i-1]) {
				buf = buf[:len(buf)-1]
			}
		default:
			buf = append(buf, tok...)
		}
	}
	return string(buf)
}

func endsWithSeparator(tok string) bool {
	return strings.HasSuffix(tok, "-") || strings.HasSuffix(tok, "_")
}
