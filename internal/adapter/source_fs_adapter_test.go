package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	m "vcrm.dev/pkg/vcrm/internal/model"
)

func TestLocalSourceFSAdapter_Get(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeTestFile(t, filepath.Join(root, "test_top.py"), "def test_a():\n")
	writeTestFile(t, filepath.Join(root, "README.md"), "# readme\n")
	writeTestFile(t, filepath.Join(root, "tests", "test_api.py"), "def test_b():\n")
	writeTestFile(t, filepath.Join(root, "tests", "migrations", "0001_initial.py"), "\n")
	writeTestFile(t, filepath.Join(root, ".venv", "lib", "site.py"), "\n")
	writeTestFile(t, filepath.Join(root, "tests", "__pycache__", "cached.py"), "\n")

	adapter := NewLocalSourceFSAdapter()

	t.Run("recursive pattern", func(t *testing.T) {
		sources, err := adapter.Get(ctx, []m.Path{m.Path(root + "/...")})
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		want := []m.Path{
			m.Path(filepath.Join(root, "test_top.py")),
			m.Path(filepath.Join(root, "tests", "migrations", "0001_initial.py")),
			m.Path(filepath.Join(root, "tests", "test_api.py")),
		}

		assertSourcePaths(t, sources, want)

		if sources[0].BaseName != "test_top" {
			t.Fatalf("BaseName = %q, want %q", sources[0].BaseName, "test_top")
		}
	})

	t.Run("non recursive skips nested files", func(t *testing.T) {
		sources, err := adapter.Get(ctx, []m.Path{m.Path(root)})
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		assertSourcePaths(t, sources, []m.Path{m.Path(filepath.Join(root, "test_top.py"))})
	})

	t.Run("exclude regex", func(t *testing.T) {
		sources, err := adapter.Get(ctx, []m.Path{m.Path(root + "/...")}, "migrations")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		assertSourcePaths(t, sources, []m.Path{
			m.Path(filepath.Join(root, "test_top.py")),
			m.Path(filepath.Join(root, "tests", "test_api.py")),
		})
	})

	t.Run("overlapping patterns are deduplicated", func(t *testing.T) {
		file := m.Path(filepath.Join(root, "tests", "test_api.py"))

		sources, err := adapter.Get(ctx, []m.Path{m.Path(filepath.Join(root, "tests")), file})
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		assertSourcePaths(t, sources, []m.Path{file})
	})

	t.Run("explicit file of any extension", func(t *testing.T) {
		file := m.Path(filepath.Join(root, "README.md"))

		sources, err := adapter.Get(ctx, []m.Path{file})
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		assertSourcePaths(t, sources, []m.Path{file})
	})

	t.Run("invalid exclude", func(t *testing.T) {
		if _, err := adapter.Get(ctx, []m.Path{m.Path(root)}, "("); err == nil {
			t.Fatal("Get() expected error for invalid regex")
		}
	})

	t.Run("missing root", func(t *testing.T) {
		if _, err := adapter.Get(ctx, []m.Path{m.Path(filepath.Join(root, "missing"))}); err == nil {
			t.Fatal("Get() expected error for missing root")
		}
	})
}

func TestLocalSourceFSAdapter_GetWithoutPatternsScansWorkingDir(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "manage.py"), "\n")
	writeTestFile(t, filepath.Join(root, "shop", "tests", "test_orders.py"), "def test_a():\n")
	writeTestFile(t, filepath.Join(root, "notes.txt"), "\n")
	t.Chdir(root)

	sources, err := NewLocalSourceFSAdapter().Get(context.Background(), nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	assertSourcePaths(t, sources, []m.Path{
		"manage.py",
		m.Path(filepath.Join("shop", "tests", "test_orders.py")),
	})

	if sources[1].BaseName != "test_orders" {
		t.Fatalf("BaseName = %q, want %q", sources[1].BaseName, "test_orders")
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern       m.Path
		wantRoot      string
		wantRecursive bool
	}{
		{"...", ".", true},
		{"./...", ".", true},
		{"./tests/...", "./tests", true},
		{"tests", "tests", false},
		{"tests/test_api.py", "tests/test_api.py", false},
	}

	for _, tt := range tests {
		root, recursive := splitPattern(tt.pattern)
		if root != tt.wantRoot || recursive != tt.wantRecursive {
			t.Errorf("splitPattern(%q) = (%q, %v), want (%q, %v)", tt.pattern, root, recursive, tt.wantRoot, tt.wantRecursive)
		}
	}
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "test_api.py")
	writeTestFile(t, path, "def test_a():\n")

	content, err := adapter.ReadFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "def test_a():\n" {
		t.Fatalf("ReadFile() = %q", content)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.ReadFile(ctx, m.Path(path)); !errors.Is(err, context.Canceled) {
		t.Fatalf("ReadFile() with cancelled context error = %v", err)
	}
}

func TestLocalSourceFSAdapter_FindFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()

	first := t.TempDir()
	second := t.TempDir()
	writeTestFile(t, filepath.Join(second, "b", "manage.py"), "\n")
	writeTestFile(t, filepath.Join(second, "a", "deep", "manage.py"), "\n")
	writeTestFile(t, filepath.Join(first, "node_modules", "manage.py"), "\n")

	got, err := adapter.FindFile(ctx, []m.Path{m.Path(first), m.Path(second)}, "manage.py")
	if err != nil {
		t.Fatalf("FindFile() error = %v", err)
	}

	want := m.Path(filepath.Join(second, "a", "deep", "manage.py"))
	if got != want {
		t.Fatalf("FindFile() = %q, want %q", got, want)
	}

	if _, err := adapter.FindFile(ctx, []m.Path{m.Path(first)}, "manage.py"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("FindFile() error = %v, want ErrFileNotFound", err)
	}
}

func TestLocalSourceFSAdapter_Remove(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	ctx := context.Background()
	root := t.TempDir()

	cassette := filepath.Join(root, "cassettes", "test_get.yaml")
	writeTestFile(t, cassette, "interactions: []\n")

	if err := adapter.Remove(ctx, m.Path(cassette)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, err := os.Stat(cassette); !os.IsNotExist(err) {
		t.Fatalf("cassette still exists: %v", err)
	}

	if err := adapter.Remove(ctx, m.Path(cassette)); err == nil {
		t.Fatal("Remove() of a missing file should fail")
	}

	if err := adapter.Remove(ctx, m.Path(filepath.Join(root, "cassettes"))); err == nil {
		t.Fatal("Remove() of a directory should fail")
	}

	if _, err := os.Stat(filepath.Join(root, "cassettes")); err != nil {
		t.Fatalf("directory was removed: %v", err)
	}
}

func TestLocalSourceFSAdapter_JoinPath(t *testing.T) {
	got := NewLocalSourceFSAdapter().JoinPath(context.Background(), "/proj", "", "manage.py")
	if want := m.Path(filepath.Join("/proj", "manage.py")); got != want {
		t.Fatalf("JoinPath() = %q, want %q", got, want)
	}
}

func assertSourcePaths(t *testing.T, sources []m.Source, want []m.Path) {
	t.Helper()

	if len(sources) != len(want) {
		t.Fatalf("got %d sources %v, want %d %v", len(sources), sources, len(want), want)
	}

	for i := range want {
		if sources[i].Path != want[i] {
			t.Fatalf("source[%d] = %q, want %q", i, sources[i].Path, want[i])
		}
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	mustMkdir(t, filepath.Dir(path))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}
