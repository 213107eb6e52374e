package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"repository path", "org/apache/maven/maven-model/3.0/maven-model-3.0.jar", false},
		{"flat file", "maven-model-3.0.jar", false},
		{"dots in name", "a/b..c/d.jar", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "org/../../etc", true},
		{"backslash", "org\\apache", true},
		{"control char", "org/\x01/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://repo1.maven.org/maven2", false},
		{"http", "http://localhost:8081/repository", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///tmp/repo", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRefID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"deps", false},
		{"compile.deps-1", false},
		{"", true},
		{"-deps", true},
		{"my deps", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateRefID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRefID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidReference) {
				t.Errorf("ValidateRefID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidReference)
			}
		})
	}
}
