package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTempFileManager(t *testing.T) {
	parent := t.TempDir()
	m, err := NewTempFileManager(parent)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(m.Root(), parent) {
		t.Fatal(m.Root())
	}

	tmp := m.MkTmp(".tif")
	kept := m.MkTmpKeep(".tif")
	if filepath.Ext(tmp) != ".tif" || filepath.Dir(tmp) != m.Root() {
		t.Fatal(tmp)
	}
	touch(t, tmp)
	touch(t, kept)

	m.CleanUp()
	if _, err = os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatal("tmp survived cleanup")
	}
	if _, err = os.Stat(kept); err != nil {
		t.Fatal("kept removed by cleanup")
	}

	if err = m.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err = os.Stat(m.Root()); !os.IsNotExist(err) {
		t.Fatal("root survived close")
	}
}

func TestTempFileManagerUniquePaths(t *testing.T) {
	m, err := NewTempFileManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		p := m.MkTmp(".png")
		if seen[p] {
			t.Fatal(p)
		}
		seen[p] = true
	}
}
