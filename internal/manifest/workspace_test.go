package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadWorkspace(t *testing.T) {
	root := t.TempDir()
	content := `packages:
  - "apps/*"
  - "packages/**"
  - "!packages/**/test-fixtures"
`
	if err := os.WriteFile(filepath.Join(root, WorkspaceFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ws, err := LoadWorkspace(root)
	if err != nil {
		t.Fatalf("LoadWorkspace() error: %v", err)
	}
	if ws == nil {
		t.Fatal("LoadWorkspace() returned nil workspace")
	}
	if len(ws.Patterns) != 3 {
		t.Errorf("Patterns = %v", ws.Patterns)
	}

	tests := []struct {
		dir  string
		want bool
	}{
		{".", true},
		{"apps/web", true},
		{"apps/web/nested", false},
		{"packages/ui", true},
		{"packages/ui/icons", true},
		{"packages/ui/test-fixtures", false},
		{"tools/scripts", false},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			if got := ws.Includes(filepath.Join(root, tt.dir)); got != tt.want {
				t.Errorf("Includes(%q) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}

	if ws.Includes(filepath.Join(filepath.Dir(root), "elsewhere")) {
		t.Error("Includes() should reject directories outside the root")
	}
}

func TestLoadWorkspace_Missing(t *testing.T) {
	ws, err := LoadWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("LoadWorkspace() error: %v", err)
	}
	if ws != nil {
		t.Fatalf("LoadWorkspace() = %+v, want nil", ws)
	}
	if !ws.Includes("/anything") {
		t.Error("nil workspace should include everything")
	}
}

func TestLoadWorkspace_Invalid(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, WorkspaceFile), []byte("packages: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWorkspace(root); err == nil {
		t.Error("LoadWorkspace() expected parse error")
	}
}

func TestWorkspace_Filter(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace(root, []string{"./packages/*/", "!packages/legacy"})

	paths := []string{
		filepath.Join(root, FileName),
		filepath.Join(root, "packages", "a", FileName),
		filepath.Join(root, "packages", "legacy", FileName),
		filepath.Join(root, "examples", "demo", FileName),
	}

	want := []string{paths[0], paths[1]}
	if got := ws.Filter(paths); !reflect.DeepEqual(got, want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}

	var none *Workspace
	if got := none.Filter(paths); len(got) != len(paths) {
		t.Error("nil workspace Filter() should keep every path")
	}
}

func TestWorkspace_Patterns(t *testing.T) {
	tests := []struct {
		pattern, dir string
		want         bool
	}{
		{"packages/*", "packages/a", true},
		{"packages/*", "packages/a/b", false},
		{"packages/**", "packages/a/b", true},
		{"**/lib", "lib", true},
		{"**/lib", "a/b/lib", true},
		{"pkg-?", "pkg-1", true},
		{"pkg-?", "pkg-10", false},
		{"a.b/*", "axb/c", false},
		{"apps/{web,docs}", "apps/docs", true},
		{"apps/{web,docs}", "apps/admin", false},
		{"[unclosed", "[unclosed", false},
	}

	root := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.dir, func(t *testing.T) {
			ws := NewWorkspace(root, []string{tt.pattern})
			if got := ws.Includes(filepath.Join(root, filepath.FromSlash(tt.dir))); got != tt.want {
				t.Errorf("pattern %q includes %q = %v, want %v", tt.pattern, tt.dir, got, tt.want)
			}
		})
	}
}
