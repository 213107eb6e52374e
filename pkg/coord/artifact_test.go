package coord

import "testing"

func TestParseArtifact(t *testing.T) {
	tests := []struct {
		input string
		want  Artifact
		key   string
	}{
		{"test:dummy:pom:0.1-SNAPSHOT", Artifact{"test", "dummy", "pom", "", "0.1-SNAPSHOT"}, "test:dummy:pom:0.1-SNAPSHOT"},
		{"g:a:1.0", Artifact{"g", "a", "jar", "", "1.0"}, "g:a:jar:1.0"},
		{"g:a::1.0", Artifact{"g", "a", "jar", "", "1.0"}, "g:a:jar:1.0"},
		{"g:a:jar:sources:1.0", Artifact{"g", "a", "jar", "sources", "1.0"}, "g:a:jar:sources:1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseArtifact(tt.input)
			if err != nil {
				t.Fatalf("ParseArtifact(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseArtifact(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.key {
				t.Errorf("String() = %q, want %q", got.String(), tt.key)
			}
		})
	}
}

func TestParseArtifactInvalid(t *testing.T) {
	for _, input := range []string{"", "g", "g:a", "g:a:jar:cls:1.0:x"} {
		if _, err := ParseArtifact(input); err == nil {
			t.Errorf("ParseArtifact(%q) expected error", input)
		}
	}
}

func TestVersionlessID(t *testing.T) {
	a := Artifact{"g", "a", "jar", "sources", "1.0"}
	b := a.WithVersion("2.0")
	if a.VersionlessID() != b.VersionlessID() {
		t.Errorf("VersionlessID differs across versions: %q vs %q", a.VersionlessID(), b.VersionlessID())
	}
	if got := a.VersionlessID(); got != "g:a:sources:jar" {
		t.Errorf("VersionlessID() = %q", got)
	}
}

func TestBaseVersion(t *testing.T) {
	tests := []struct {
		version  string
		base     string
		snapshot bool
	}{
		{"1.0", "1.0", false},
		{"1.0-SNAPSHOT", "1.0-SNAPSHOT", true},
		{"1.0-20240101.120000-3", "1.0-SNAPSHOT", true},
		{"20240101.120000-3", "SNAPSHOT", true},
		{"1.0-alpha-1", "1.0-alpha-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			a := Artifact{Version: tt.version}
			if got := a.BaseVersion(); got != tt.base {
				t.Errorf("BaseVersion() = %q, want %q", got, tt.base)
			}
			if got := a.IsSnapshot(); got != tt.snapshot {
				t.Errorf("IsSnapshot() = %v, want %v", got, tt.snapshot)
			}
		})
	}
}
