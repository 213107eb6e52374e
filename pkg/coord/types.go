package coord

// artifactTypes maps packaging types whose file differs from the type name.
var artifactTypes = map[string]struct{ extension, classifier string }{
	"pom":          {"pom", ""},
	"jar":          {"jar", ""},
	"test-jar":     {"jar", "tests"},
	"maven-plugin": {"jar", ""},
	"ejb":          {"jar", ""},
	"ejb-client":   {"jar", "client"},
	"java-source":  {"jar", "sources"},
	"javadoc":      {"jar", "javadoc"},
	"war":          {"war", ""},
	"ear":          {"ear", ""},
	"rar":          {"rar", ""},
	"par":          {"par", ""},
}

// TypeExtension returns the file extension used for a packaging type.
// Unknown types are their own extension.
func TypeExtension(typ string) string {
	if t, ok := artifactTypes[typ]; ok {
		return t.extension
	}
	return typ
}

// TypeClassifier returns the classifier implied by a packaging type, if any.
func TypeClassifier(typ string) string {
	return artifactTypes[typ].classifier
}
