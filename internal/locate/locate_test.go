package locate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// plantEntry creates root/<rel> with parent directories.
func plantEntry(tb testing.TB, root, rel string) string {
	tb.Helper()

	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("plant entry dirs: %v", err)
	}
	if err := os.WriteFile(path, []byte("// server"), 0o644); err != nil {
		tb.Fatalf("plant entry file: %v", err)
	}
	return path
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires roots", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{})
		if !errors.Is(err, ErrNoRoots) {
			t.Fatalf("New() = %v, want ErrNoRoots", err)
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		l, err := New(Config{Roots: []string{t.TempDir()}})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		if l.entryRel != DefaultEntryPoint {
			t.Errorf("entryRel = %q, want %q", l.entryRel, DefaultEntryPoint)
		}
		if l.depDir != DefaultDependencyDir {
			t.Errorf("depDir = %q, want %q", l.depDir, DefaultDependencyDir)
		}
		if l.log == nil {
			t.Error("expected a fallback logger")
		}
	})
}

func TestLocator_Find_FirstMatchWins(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	plantEntry(t, first, DefaultEntryPoint)
	plantEntry(t, second, DefaultEntryPoint)

	l, err := New(Config{Roots: []string{first, second}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	loc, err := l.Find()
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if loc.Root != first {
		t.Errorf("Root = %q, want first candidate %q", loc.Root, first)
	}
	if loc.EntryPoint != filepath.Join(first, DefaultEntryPoint) {
		t.Errorf("EntryPoint = %q", loc.EntryPoint)
	}
}

func TestLocator_Find_SkipsToLaterCandidate(t *testing.T) {
	t.Parallel()

	// Entry point present only at the third candidate.
	roots := []string{t.TempDir(), t.TempDir(), t.TempDir(), t.TempDir()}
	plantEntry(t, roots[2], DefaultEntryPoint)

	l, err := New(Config{Roots: roots})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	loc, err := l.Find()
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if loc.Root != roots[2] {
		t.Errorf("Root = %q, want third candidate %q", loc.Root, roots[2])
	}
}

func TestLocator_Find_NotFound(t *testing.T) {
	t.Parallel()

	l, err := New(Config{Roots: []string{t.TempDir(), t.TempDir()}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	loc, err := l.Find()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find() = %v, want ErrNotFound", err)
	}
	if loc != nil {
		t.Errorf("Find() returned a location on miss: %+v", loc)
	}
}

func TestLocator_Find_WorkDirRule(t *testing.T) {
	t.Parallel()

	t.Run("dependency dir present uses root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		plantEntry(t, root, DefaultEntryPoint)
		if err := os.Mkdir(filepath.Join(root, DefaultDependencyDir), 0o755); err != nil {
			t.Fatal(err)
		}

		l, err := New(Config{Roots: []string{root}})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		loc, err := l.Find()
		if err != nil {
			t.Fatalf("Find() error: %v", err)
		}
		if loc.WorkDir != root {
			t.Errorf("WorkDir = %q, want root %q", loc.WorkDir, root)
		}
	})

	t.Run("no dependency dir uses entry grandparent", func(t *testing.T) {
		t.Parallel()

		// A deeper entry path separates "root" from "grandparent".
		root := t.TempDir()
		rel := filepath.Join("app", "src", "server.js")
		entry := plantEntry(t, root, rel)

		l, err := New(Config{Roots: []string{root}, EntryPoint: rel})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		loc, err := l.Find()
		if err != nil {
			t.Fatalf("Find() error: %v", err)
		}
		want := filepath.Dir(filepath.Dir(entry))
		if loc.WorkDir != want {
			t.Errorf("WorkDir = %q, want grandparent %q", loc.WorkDir, want)
		}
		if loc.WorkDir == root {
			t.Error("grandparent rule should not have picked the root here")
		}
	})

	t.Run("standard layout grandparent equals root", func(t *testing.T) {
		t.Parallel()

		// With the default src/server.js entry the grandparent IS the root,
		// so both rule branches agree.
		root := t.TempDir()
		plantEntry(t, root, DefaultEntryPoint)

		l, err := New(Config{Roots: []string{root}})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		loc, err := l.Find()
		if err != nil {
			t.Fatalf("Find() error: %v", err)
		}
		if loc.WorkDir != root {
			t.Errorf("WorkDir = %q, want %q", loc.WorkDir, root)
		}
	})
}

func TestLocator_Find_DirectoryNamedLikeEntryIgnored(t *testing.T) {
	t.Parallel()

	// A directory at the entry-point path is not a usable entry point.
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DefaultEntryPoint), 0o755); err != nil {
		t.Fatal(err)
	}

	l, err := New(Config{Roots: []string{root}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := l.Find(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Find() = %v, want ErrNotFound", err)
	}
}

func TestDefaultRoots(t *testing.T) {
	t.Parallel()

	roots, err := DefaultRoots()
	if err != nil {
		t.Fatalf("DefaultRoots() error: %v", err)
	}
	if len(roots) < 3 {
		t.Fatalf("expected at least cwd, parent, grandparent; got %v", roots)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if roots[0] != cwd {
		t.Errorf("first root = %q, want working directory %q", roots[0], cwd)
	}
	if roots[len(roots)-2] != filepath.Dir(cwd) {
		t.Errorf("second-to-last root = %q, want parent %q", roots[len(roots)-2], filepath.Dir(cwd))
	}
	if roots[len(roots)-1] != filepath.Dir(filepath.Dir(cwd)) {
		t.Errorf("last root = %q, want grandparent %q", roots[len(roots)-1], filepath.Dir(filepath.Dir(cwd)))
	}
}
