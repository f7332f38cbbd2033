package valid

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/jar"
	"github.com/mabhi256/jsadump/internal/jar/jartest"
)

// stubValidator returns a fixed verdict and counts calls.
type stubValidator struct {
	name    string
	verdict Verdict
	calls   int
}

func (s *stubValidator) Name() string { return s.name }

func (s *stubValidator) Check(classlist.Entry) Verdict {
	s.calls++
	return s.verdict
}

// countingInspector counts inspections per path.
type countingInspector struct {
	mu      sync.Mutex
	calls   map[string]int
	digests []string
	err     error
}

func newCountingInspector(digests []string, err error) *countingInspector {
	return &countingInspector{calls: make(map[string]int), digests: digests, err: err}
}

func (c *countingInspector) ManifestDigests(path string) ([]string, error) {
	c.mu.Lock()
	c.calls[path]++
	c.mu.Unlock()
	return c.digests, c.err
}

func (c *countingInspector) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func TestChain_AllValid(t *testing.T) {
	a := &stubValidator{name: "a", verdict: Valid}
	b := &stubValidator{name: "b", verdict: Valid}

	reason, rejected := NewChain(a, b).Evaluate(classlist.Entry{Name: "x/Y"})
	if rejected || reason != "" {
		t.Errorf("expected acceptance, got %q", reason)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = (%d, %d), want (1, 1)", a.calls, b.calls)
	}
}

func TestChain_ShortCircuitsOnInvalid(t *testing.T) {
	first := &stubValidator{name: "first", verdict: Valid}
	rejecting := &stubValidator{name: "rejecting", verdict: Invalid}
	last := &stubValidator{name: "last", verdict: Valid}

	reason, rejected := NewChain(first, rejecting, last).Evaluate(classlist.Entry{Name: "x/Y"})
	if !rejected {
		t.Fatal("expected rejection")
	}
	if reason != "rejected by rejecting" {
		t.Errorf("reason = %q", reason)
	}
	if last.calls != 0 {
		t.Errorf("validator after the rejecting one ran %d times", last.calls)
	}
}

func TestChain_IndeterminateRejects(t *testing.T) {
	unsure := &stubValidator{name: "unsure", verdict: Indeterminate}
	last := &stubValidator{name: "last", verdict: Invalid}

	reason, rejected := NewChain(unsure, last).Evaluate(classlist.Entry{Name: "x/Y"})
	if !rejected {
		t.Fatal("indeterminate must reject")
	}
	if reason != "rejected by unsure: unknown reason" {
		t.Errorf("reason = %q", reason)
	}
	if last.calls != 0 {
		t.Errorf("validator after the indeterminate one ran %d times", last.calls)
	}
}

func TestChain_FirstRejectionReported(t *testing.T) {
	a := &stubValidator{name: "a", verdict: Invalid}
	b := &stubValidator{name: "b", verdict: Invalid}

	verdict, name := NewChain(a, b).Classify(classlist.Entry{Name: "x/Y"})
	if verdict != Invalid || name != "a" {
		t.Errorf("Classify = (%s, %q), want (invalid, a)", verdict, name)
	}
}

func TestChain_Empty(t *testing.T) {
	if _, rejected := NewChain().Evaluate(classlist.Entry{Name: "x/Y"}); rejected {
		t.Error("empty chain accepts everything")
	}
}

func TestChain_ValidatorsIsACopy(t *testing.T) {
	c := NewChain(&stubValidator{name: "a"})
	vs := c.Validators()
	vs[0] = &stubValidator{name: "b"}
	if c.Validators()[0].Name() != "a" {
		t.Error("chain order must be fixed at construction")
	}
}

func TestSignedJar_EmptySourceIsValid(t *testing.T) {
	insp := newCountingInspector([]string{"SHA-256-Digest-Manifest: x"}, errors.New("boom"))
	v := NewSignedJarValidator(insp, nil)

	if got := v.Check(classlist.Entry{Name: "a/B"}); got != Valid {
		t.Errorf("verdict = %s, want valid", got)
	}
	if insp.total() != 0 {
		t.Error("no inspection expected for an entry without source")
	}
}

func TestSignedJar_NonJarPathsSkipInspection(t *testing.T) {
	dir := t.TempDir()
	notJar := filepath.Join(dir, "classes.zip")
	if err := os.WriteFile(notJar, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	dirJar := filepath.Join(dir, "exploded.jar")
	if err := os.Mkdir(dirJar, 0755); err != nil {
		t.Fatal(err)
	}

	insp := newCountingInspector([]string{"SHA-256-Digest-Manifest: x"}, nil)
	v := NewSignedJarValidator(insp, nil)

	for _, p := range []string{
		filepath.Join(dir, "missing.jar"),
		notJar,
		dirJar,
		"jrt:/java.base",
	} {
		if got := v.CheckPath(p); got != Valid {
			t.Errorf("CheckPath(%s) = %s, want valid", p, got)
		}
	}
	if insp.total() != 0 {
		t.Errorf("inspector called %d times, want 0", insp.total())
	}
}

func TestSignedJar_Verdicts(t *testing.T) {
	dir := t.TempDir()
	signed := jartest.Signed(t, filepath.Join(dir, "signed.jar"))
	upper := jartest.Signed(t, filepath.Join(dir, "SIGNED-UPPER.JAR"))
	unsigned := jartest.Unsigned(t, filepath.Join(dir, "plain.jar"))
	corrupt := filepath.Join(dir, "corrupt.jar")
	if err := os.WriteFile(corrupt, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	v := NewSignedJarValidator(jar.NewInspector(), nil)
	tests := []struct {
		path string
		want Verdict
	}{
		{signed, Invalid},
		{upper, Invalid},
		{unsigned, Valid},
		{corrupt, Indeterminate},
	}
	for _, tt := range tests {
		if got := v.Check(classlist.Entry{Name: "a/B", Source: tt.path}); got != tt.want {
			t.Errorf("Check(%s) = %s, want %s", filepath.Base(tt.path), got, tt.want)
		}
	}
}

func TestSignedJar_InspectsEachPathOnce(t *testing.T) {
	p := jartest.Unsigned(t, filepath.Join(t.TempDir(), "lib.jar"))
	insp := newCountingInspector([]string{"SHA-256-Digest-Manifest: x"}, nil)
	v := NewSignedJarValidator(insp, nil)

	for i := 0; i < 3; i++ {
		if got := v.Check(classlist.Entry{Name: "a/B", Source: p}); got != Invalid {
			t.Fatalf("verdict = %s, want invalid", got)
		}
	}
	if insp.calls[p] != 1 {
		t.Errorf("inspections = %d, want 1", insp.calls[p])
	}
}

func TestSignedJar_IndeterminateIsCached(t *testing.T) {
	p := jartest.Unsigned(t, filepath.Join(t.TempDir(), "lib.jar"))
	insp := newCountingInspector(nil, errors.New("read error"))
	v := NewSignedJarValidator(insp, nil)

	for i := 0; i < 2; i++ {
		if got := v.CheckPath(p); got != Indeterminate {
			t.Fatalf("verdict = %s, want indeterminate", got)
		}
	}
	if insp.calls[p] != 1 {
		t.Errorf("inspections = %d, want 1", insp.calls[p])
	}
}

func TestSignedJar_ConcurrentChecksInspectOnce(t *testing.T) {
	p := jartest.Unsigned(t, filepath.Join(t.TempDir(), "lib.jar"))
	insp := newCountingInspector(nil, nil)
	v := NewSignedJarValidator(insp, nil)

	var wg sync.WaitGroup
	var invalid atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v.CheckPath(p) != Valid {
				invalid.Add(1)
			}
		}()
	}
	wg.Wait()

	if invalid.Load() != 0 {
		t.Errorf("%d goroutines saw a non-valid verdict", invalid.Load())
	}
	if insp.total() != 1 {
		t.Errorf("inspections = %d, want 1", insp.total())
	}
}

func TestDefaultChain_RejectsSignedJar(t *testing.T) {
	signed := jartest.Signed(t, filepath.Join(t.TempDir(), "signed.jar"))
	chain := DefaultChain(jar.NewInspector(), nil)

	reason, rejected := chain.Evaluate(classlist.Entry{Name: "a/B", Source: signed})
	if !rejected || reason != "rejected by SignedJarValidator" {
		t.Errorf("Evaluate = (%q, %v)", reason, rejected)
	}
	if _, rejected := chain.Evaluate(classlist.Entry{Name: "a/C"}); rejected {
		t.Error("entry without source must be accepted")
	}
}
