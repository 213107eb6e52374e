package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/workspace"
)

const appPom = `<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0</version>
</project>`

const appBuild = `localRepository = "${basedir}/repo"

[[repository]]
id = "internal"
url = "%URL%"

[[pom]]
id = "app"
file = "pom.xml"

[[dependencies]]
id = "compile"
[[dependencies.dependency]]
coords = "org.slf4j:slf4j-api:2.0.9"
[[dependencies.dependency]]
coords = "com.example:app:1.0"

[[dependencies]]
id = "test"
[[dependencies.dependency]]
coords = "junit:junit:4.13.2:test"

[[artifacts]]
id = "outputs"
pom = "app"
[[artifacts.artifact]]
file = "target/app.jar"
[[artifacts.artifact]]
file = "target/app-sources.jar"
type = "java-source"
`

// isolate keeps tests away from the user's settings, cache and the shared
// in-process workspace.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("MVNKIT_USER_SETTINGS", filepath.Join(dir, "settings.xml"))
	t.Setenv("MVNKIT_GLOBAL_SETTINGS", filepath.Join(dir, "global.xml"))
	workspace.ResetDefault()
	t.Cleanup(workspace.ResetDefault)
}

// writeProject writes appBuild with its POM and outputs and returns the
// build file path.
func writeProject(t *testing.T, url string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"mvnkit.toml":            strings.ReplaceAll(appBuild, "%URL%", url),
		"pom.xml":                appPom,
		"target/app.jar":         "jar",
		"target/app-sources.jar": "sources",
	}
	files["repo/org/slf4j/slf4j-api/2.0.9/slf4j-api-2.0.9.jar"] = "slf4j"
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "mvnkit.toml")
}

// runCLI runs the command line args and returns what it wrote to its
// output stream.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	defer c.Close()

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseDefines(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"pairs", []string{"a=1", "b=x=y"}, map[string]string{"a": "1", "b": "x=y"}, false},
		{"empty value", []string{"a="}, map[string]string{"a": ""}, false},
		{"missing equals", []string{"a"}, nil, true},
		{"missing key", []string{"=1"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDefines(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDefines() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseDefines() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"coords", "layout", "validate", "resolve", "install", "deploy", "workspace", "settings", "graph", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestCoordsCommand(t *testing.T) {
	out, err := runCLI(t, "coords", "org.apache.maven:maven-model:3.0")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"org.apache.maven:maven-model:3.0", "scope       compile", "type        jar", "org/apache/maven/maven-model/3.0/maven-model-3.0.jar"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "coords", "-x", "org.apache.*")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "artifactId  *") {
		t.Errorf("exclusion defaults missing:\n%s", out)
	}

	_, err = runCLI(t, "coords", "just-a-name")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestLayoutCommand(t *testing.T) {
	tests := []struct {
		template string
		artifact string
		want     string
	}{
		{"default", "org.apache.maven:maven-model:3.0", "org/apache/maven/maven-model/3.0/maven-model-3.0.jar"},
		{"flat", "org.apache.maven:maven-model:jar:sources:3.0", "maven-model-3.0-sources.jar"},
		{"{groupId}/{artifactId}.{extension}", "g:a:pom:1", "g/a.pom"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			out, err := runCLI(t, "layout", "-t", tt.template, tt.artifact)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("layout = %q, want %q", got, tt.want)
			}
		})
	}

	_, err := runCLI(t, "layout", "-t", "{nope}", "g:a:1")
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidLayout)
	}
}

func TestValidateCommand(t *testing.T) {
	isolate(t)
	build := writeProject(t, "https://repo.example.com/maven2")
	if _, err := runCLI(t, "-f", build, "validate"); err != nil {
		t.Fatalf("validate: %v", err)
	}

	dup := filepath.Join(filepath.Dir(build), "dup.toml")
	content := `[[dependencies]]
[[dependencies.dependency]]
coords = "junit:junit:4.12"
[[dependencies.dependency]]
coords = "junit:junit:4.13.2"
`
	if err := os.WriteFile(dup, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "-f", dup, "validate")
	if !errors.Is(err, errors.ErrCodeDuplicateDependency) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeDuplicateDependency)
	}
}

func TestResolveCommand(t *testing.T) {
	isolate(t)
	build := writeProject(t, "https://repo.example.com/maven2")
	dir := filepath.Dir(build)

	out, err := runCLI(t, "-f", build, "--offline", "resolve", "-d", "compile", "-o", "properties")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{
		"com.example:app:jar=" + filepath.Join(dir, "target", "app.jar"),
		"org.slf4j:slf4j-api:jar=" + filepath.Join(dir, "repo", "org", "slf4j", "slf4j-api", "2.0.9", "slf4j-api-2.0.9.jar"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	copyDir := filepath.Join(dir, "lib")
	if _, err := runCLI(t, "-f", build, "--offline", "resolve", "-d", "compile", "-o", "classpath", "--copy-to", copyDir); err != nil {
		t.Fatalf("resolve --copy-to: %v", err)
	}
	for _, name := range []string{"app-1.0.jar", "slf4j-api-2.0.9.jar"} {
		if _, err := os.Stat(filepath.Join(copyDir, name)); err != nil {
			t.Errorf("%s not copied: %v", name, err)
		}
	}
}

func TestResolveCommandMissing(t *testing.T) {
	isolate(t)
	build := writeProject(t, "https://repo.example.com/maven2")

	_, err := runCLI(t, "-f", build, "--offline", "resolve", "-d", "test", "-o", "classpath")
	if !errors.Is(err, errors.ErrCodeArtifactNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeArtifactNotFound)
	}

	if _, err := runCLI(t, "-f", build, "--offline", "resolve", "-d", "test", "-o", "classpath", "--ignore-missing"); err != nil {
		t.Errorf("--ignore-missing: %v", err)
	}

	if _, err := runCLI(t, "-f", build, "resolve", "-o", "xml"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestInstallCommand(t *testing.T) {
	isolate(t)
	build := writeProject(t, "https://repo.example.com/maven2")
	repo := filepath.Join(filepath.Dir(build), "repo", "com", "example", "app", "1.0")

	if _, err := runCLI(t, "-f", build, "install"); err != nil {
		t.Fatalf("install: %v", err)
	}
	for _, name := range []string{"app-1.0.pom", "app-1.0.jar", "app-1.0-sources.jar"} {
		if _, err := os.Stat(filepath.Join(repo, name)); err != nil {
			t.Errorf("%s not installed: %v", name, err)
		}
	}
}

func TestDeployCommand(t *testing.T) {
	isolate(t)

	var (
		mu   sync.Mutex
		puts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		mu.Lock()
		puts = append(puts, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	build := writeProject(t, srv.URL+"/maven2")
	if _, err := runCLI(t, "-f", build, "deploy", "-r", "internal", "--artifacts", "outputs"); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	slices.Sort(puts)
	want := []string{
		"/maven2/com/example/app/1.0/app-1.0-sources.jar",
		"/maven2/com/example/app/1.0/app-1.0.jar",
		"/maven2/com/example/app/1.0/app-1.0.pom",
	}
	if !slices.Equal(puts, want) {
		t.Errorf("uploads = %v, want %v", puts, want)
	}

	if _, err := runCLI(t, "-f", build, "deploy", "-r", "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown repository error = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if _, err := runCLI(t, "-f", build, "--offline", "deploy"); err == nil {
		t.Error("deploy while offline should fail")
	}
}

func TestWorkspaceCommands(t *testing.T) {
	isolate(t)
	build := writeProject(t, "https://repo.example.com/maven2")
	dir := filepath.Dir(build)

	out, err := runCLI(t, "-f", build, "workspace", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"com.example:app:pom:1.0", "com.example:app:jar:1.0", "com.example:app:jar:sources:1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "-f", build, "workspace", "find", "com.example:app:1.0")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(dir, "target", "app.jar") {
		t.Errorf("find = %q", got)
	}

	other := filepath.Join(t.TempDir(), "pom.xml")
	if err := os.WriteFile(other, []byte(strings.Replace(appPom, "1.0", "2.0", 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "-f", build, "workspace", "register", other); err != nil {
		t.Fatal(err)
	}

	out, err = runCLI(t, "-f", build, "workspace", "versions", "com.example:app:pom:0")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(out); !slices.Equal(got, []string{"1.0", "2.0"}) {
		t.Errorf("versions = %v, want [1.0 2.0]", got)
	}

	out, err = runCLI(t, "-f", build, "workspace", "versions", "--range", "[1.5,)", "com.example:app:pom:0")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != "2.0" {
		t.Errorf("versions in range = %q, want 2.0", got)
	}

	if _, err := runCLI(t, "-f", build, "workspace", "find", "com.example:missing:1.0"); err == nil {
		t.Error("find of an unregistered artifact should fail")
	}
}

func TestParsePomArtifact(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "a:b.jar")
	if err := os.WriteFile(existing, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   string
		want workspace.PomArtifact
	}{
		{"target/app.jar", workspace.PomArtifact{File: "target/app.jar", Type: "jar"}},
		{"war:target/app.war", workspace.PomArtifact{File: "target/app.war", Type: "war"}},
		{"jar:tests:target/t.jar", workspace.PomArtifact{File: "target/t.jar", Type: "jar", Classifier: "tests"}},
		{existing, workspace.PomArtifact{File: existing, Type: "jar"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parsePomArtifact(tt.in); got != tt.want {
				t.Errorf("parsePomArtifact(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	build := writeProject(t, "https://repo.example.com/maven2")

	out, err := runCLI(t, "-f", build, "graph", "-d", "compile")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, "slf4j-api") {
		t.Errorf("unexpected DOT output:\n%s", out)
	}

	dot := filepath.Join(t.TempDir(), "deps.dot")
	if _, err := runCLI(t, "-f", build, "graph", "-o", dot); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(dot); err != nil || !bytes.Contains(data, []byte("junit")) {
		t.Errorf("graph file = %q, %v", data, err)
	}

	if _, err := runCLI(t, "-f", build, "graph", "--format", "png"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestSettingsCommandMirrors(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	settingsFile := os.Getenv("MVNKIT_USER_SETTINGS")
	content := `<settings><mirrors><mirror><id>corp</id><mirrorOf>*</mirrorOf><url>` + srv.URL + `/corp</url></mirror></mirrors></settings>`
	if err := os.WriteFile(settingsFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	build := writeProject(t, "https://repo.example.com/maven2")
	if _, err := runCLI(t, "-f", build, "settings"); err != nil {
		t.Fatalf("settings: %v", err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	if err := root.ParseFlags([]string{"-f", build}); err != nil {
		t.Fatal(err)
	}
	e, err := c.loadEnv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.remote("internal")
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "corp" || r.URL != srv.URL+"/corp" {
		t.Errorf("remote = %s %s, want the corp mirror", r.ID, r.URL)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}
