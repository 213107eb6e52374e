package serve

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mvnkit/pkg/workspace"
)

func newServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	idx := workspace.New(nil)
	for key, content := range map[string]string{
		"com.example:app:1.0":         "app-1.0",
		"com.example:app:2.0":         "app-2.0",
		"com.example:app:pom:2.0":     "<project/>",
		"com.example:app:jar:src:2.0": "sources",
	} {
		path := filepath.Join(dir, key)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := idx.RegisterKey(ctx, key, path); err != nil {
			t.Fatal(err)
		}
	}
	srv := httptest.NewServer((&Server{Index: idx}).Handler())
	t.Cleanup(srv.Close)
	return srv, dir
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestRepository(t *testing.T) {
	srv, _ := newServer(t)
	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/repository/com/example/app/2.0/app-2.0.jar", http.StatusOK, "app-2.0"},
		{"/repository/com/example/app/2.0/app-2.0.pom", http.StatusOK, "<project/>"},
		{"/repository/com/example/app/2.0/app-2.0-src.jar", http.StatusOK, "sources"},
		{"/repository/com/example/app/3.0/app-3.0.jar", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body != "" && body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
			if resp.Header.Get("X-Request-Id") == "" {
				t.Error("missing X-Request-Id header")
			}
		})
	}
}

func TestWorkspaceAPI(t *testing.T) {
	srv, dir := newServer(t)

	resp, body := get(t, srv.URL+"/api/workspace")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var entries []entryJSON
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 || entries[0].Coords != "com.example:app:jar:1.0" {
		t.Errorf("entries = %+v", entries)
	}

	resp, body = get(t, srv.URL+"/api/workspace/find?coords=com.example:app:1.0")
	var found entryJSON
	_ = json.Unmarshal([]byte(body), &found)
	if resp.StatusCode != http.StatusOK || found.Path != filepath.Join(dir, "com.example:app:1.0") {
		t.Errorf("find = %d %+v", resp.StatusCode, found)
	}

	resp, _ = get(t, srv.URL+"/api/workspace/find?coords=com.example:app:9.9")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("find missing status = %d", resp.StatusCode)
	}
	resp, _ = get(t, srv.URL+"/api/workspace/find?coords=bad")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("find bad coords status = %d", resp.StatusCode)
	}

	_, body = get(t, srv.URL+"/api/workspace/versions?coords=com.example:app:0")
	var versions struct{ Versions []string }
	_ = json.Unmarshal([]byte(body), &versions)
	if len(versions.Versions) != 2 || versions.Versions[0] != "1.0" || versions.Versions[1] != "2.0" {
		t.Errorf("versions = %v", versions.Versions)
	}

	_, body = get(t, srv.URL+"/api/workspace/versions?coords=com.example:app:0&range=%5B2.0%2C%29")
	versions.Versions = nil
	_ = json.Unmarshal([]byte(body), &versions)
	if len(versions.Versions) != 1 || versions.Versions[0] != "2.0" {
		t.Errorf("ranged versions = %v", versions.Versions)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- (&Server{Index: workspace.New(nil)}).Serve(ctx, ln) }()

	resp, _ := get(t, "http://"+ln.Addr().String()+"/api/workspace")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
