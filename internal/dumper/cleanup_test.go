package dumper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveTemp(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "tmp", "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "lib.jar"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "list.tmp")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	paths := []string{filepath.Join(dir, "tmp"), file, filepath.Join(dir, "never-existed")}
	if err := removeTemp(paths); err != nil {
		t.Fatalf("removeTemp: %v", err)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still exists", p)
		}
	}

	if err := removeTemp(paths); err != nil {
		t.Errorf("second pass should skip missing paths: %v", err)
	}
}
