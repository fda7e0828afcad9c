package outdated

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/omarshaarawi/inup/internal/config"
	"github.com/omarshaarawi/inup/internal/manifest"
	"github.com/omarshaarawi/inup/internal/scan"
	"github.com/omarshaarawi/inup/internal/ui"
	"github.com/omarshaarawi/inup/internal/versions"
)

func TestCollectPackages(t *testing.T) {
	outdated := []scan.Resolved{
		{
			Candidate:  scan.Candidate{Name: "react", Specifier: "^18.2.0", Kind: manifest.Dependencies, Paths: []string{"a", "b"}},
			Resolution: versions.Resolution{Current: "18.2.0", Range: "18.3.1", Latest: "19.0.0", HasRange: true, HasMajor: true},
		},
		{
			Candidate:  scan.Candidate{Name: "vite", Specifier: "~5.0.0", Kind: manifest.DevDependencies, Paths: []string{"a"}},
			Resolution: versions.Resolution{Current: "5.0.0", Range: "5.4.2", Latest: "5.4.2", HasRange: true},
		},
	}

	all := collectPackages(outdated, false)
	if len(all) != 2 {
		t.Fatalf("collectPackages() returned %d packages, want 2", len(all))
	}
	if all[0].UpdateType != "major" || all[0].Locations != 2 {
		t.Errorf("react = %+v", all[0])
	}
	if all[1].UpdateType != "minor" {
		t.Errorf("vite update type = %q, want minor", all[1].UpdateType)
	}

	major := collectPackages(outdated, true)
	if len(major) != 1 || major[0].Name != "react" {
		t.Errorf("collectPackages(majorOnly) = %+v", major)
	}
}

func TestRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "react":
			w.Write([]byte(`{"dist-tags":{"latest":"19.0.0"},"versions":{"18.2.0":{},"18.3.1":{},"19.0.0":{}}}`))
		case "fsevents":
			w.Write([]byte(`{"dist-tags":{"latest":"2.3.3"},"versions":{"2.3.2":{},"2.3.3":{}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	root := t.TempDir()
	content := `{
  "dependencies": {"react": "^18.2.0"},
  "optionalDependencies": {"fsevents": "^2.3.2"}
}`
	if err := os.WriteFile(filepath.Join(root, manifest.FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	ui.SetOutput(&out, &out)
	defer ui.SetOutput(nil, nil)

	cfg := config.Default()
	cfg.RegistryURL = server.URL

	if err := Run(context.Background(), Options{Dir: root, Config: cfg}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	text := ansi.Strip(out.String())
	for _, want := range []string{
		"Dependencies",
		"Optional Dependencies",
		"react",
		"18.3.1",
		"19.0.0",
		"▲ major",
		"· patch",
		"2 package(s) can be upgraded",
		"inup upgrade",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "react") > strings.Index(text, "fsevents") {
		t.Error("main section should come before optional section")
	}
}

func TestRun_UpToDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dist-tags":{"latest":"1.0.0"},"versions":{"1.0.0":{}}}`))
	}))
	defer server.Close()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, manifest.FileName), []byte(`{"dependencies":{"a":"1.0.0"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	ui.SetOutput(&out, &out)
	defer ui.SetOutput(nil, nil)

	cfg := config.Default()
	cfg.RegistryURL = server.URL

	if err := Run(context.Background(), Options{Dir: root, Config: cfg}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), "All packages are up to date") {
		t.Errorf("output = %q", out.String())
	}
}
