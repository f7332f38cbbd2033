//go:build unix

package valid

import (
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestSignedJar_FifoNamedJarSkipsInspection(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "pipe.jar")
	if err := unix.Mkfifo(fifo, 0644); err != nil {
		t.Skipf("mkfifo: %v", err)
	}

	insp := newCountingInspector([]string{"SHA-256-Digest-Manifest: x"}, nil)
	v := NewSignedJarValidator(insp, nil)

	if got := v.CheckPath(fifo); got != Valid {
		t.Errorf("CheckPath(fifo) = %s, want valid", got)
	}
	if insp.total() != 0 {
		t.Errorf("inspector called %d times, want 0", insp.total())
	}
}
