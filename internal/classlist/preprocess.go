package classlist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Preprocessor turns the class list captured from a profiling run into the
// final class list, recording any temporary files it creates on the way.
type Preprocessor interface {
	Preprocess(ctx context.Context, originPath, finalPath, workDir string) error

	// TempFiles lists the files and directories to delete once the dump
	// process is done with them.
	TempFiles() []string
}

// EntryFilter decides whether an entry is excluded from the final list.
type EntryFilter interface {
	Evaluate(entry Entry) (reason string, rejected bool)
}

// Stats summarizes one preprocessing run.
type Stats struct {
	Read       int
	Duplicates int
	Extracted  int // nested jars unpacked from fat jars
	Dropped    int // nested jars that could not be unpacked
	Rejected   int
	Written    int
}

// Normalizer is the default Preprocessor. It drops duplicate entries, unpacks
// jars nested in fat jars into a temporary directory under the working
// directory, and removes every entry rejected by the filter.
type Normalizer struct {
	filter  EntryFilter
	logger  *zap.Logger
	workers int

	tmpDir    string
	tempFiles []string
	extracted map[string]string
	stats     Stats
}

// NewNormalizer returns a Normalizer. workers bounds concurrent filter calls;
// values below 1 mean sequential filtering.
func NewNormalizer(filter EntryFilter, logger *zap.Logger, workers int) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Normalizer{
		filter:    filter,
		logger:    logger,
		workers:   workers,
		extracted: make(map[string]string),
	}
}

var _ Preprocessor = (*Normalizer)(nil)

func (n *Normalizer) TempFiles() []string {
	return append([]string(nil), n.tempFiles...)
}

func (n *Normalizer) Stats() Stats {
	return n.stats
}

func (n *Normalizer) Preprocess(ctx context.Context, originPath, finalPath, workDir string) error {
	entries, err := ReadFile(originPath)
	if err != nil {
		return err
	}
	n.stats.Read = len(entries)

	entries = n.dedupe(entries)
	entries = n.unpackNested(entries, workDir)

	accepted, err := n.filterEntries(ctx, entries)
	if err != nil {
		return err
	}

	if err := writeFile(finalPath, accepted); err != nil {
		return fmt.Errorf("failed to write final class list: %w", err)
	}
	n.stats.Written = len(accepted)

	n.logger.Info("class list prepared",
		zap.String("origin", originPath),
		zap.String("final", finalPath),
		zap.Int("read", n.stats.Read),
		zap.Int("duplicates", n.stats.Duplicates),
		zap.Int("extracted", n.stats.Extracted),
		zap.Int("rejected", n.stats.Rejected),
		zap.Int("written", n.stats.Written),
	)
	return nil
}

func (n *Normalizer) dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e.key()]; ok {
			n.stats.Duplicates++
			continue
		}
		seen[e.key()] = struct{}{}
		out = append(out, e)
	}
	return out
}

func (n *Normalizer) unpackNested(entries []Entry, workDir string) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.Nested == "" {
			out = append(out, e)
			continue
		}

		extracted, err := n.extract(e.Source, e.Nested, workDir)
		if err != nil {
			n.stats.Dropped++
			n.logger.Warn("class dropped: nested jar not available",
				zap.String("class", e.Name),
				zap.String("jar", e.Source),
				zap.String("nested", e.Nested),
				zap.Error(err),
			)
			continue
		}
		out = append(out, e.WithSource(extracted))
	}
	return out
}

// extract copies inner out of the outer jar once and returns its path.
func (n *Normalizer) extract(outer, inner, workDir string) (string, error) {
	key := outer + "!/" + inner
	if p, ok := n.extracted[key]; ok {
		return p, nil
	}

	if n.tmpDir == "" {
		dir := filepath.Join(workDir, "jsadump-tmp-"+uuid.NewString())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create temp directory: %w", err)
		}
		n.tmpDir = dir
		n.tempFiles = append(n.tempFiles, dir)
	}

	r, err := zip.OpenReader(outer)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", outer, err)
	}
	defer r.Close()

	var nested *zip.File
	for _, f := range r.File {
		if f.Name == inner {
			nested = f
			break
		}
	}
	if nested == nil {
		return "", fmt.Errorf("%s not found in %s", inner, outer)
	}

	dir := filepath.Join(n.tmpDir, strconv.Itoa(len(n.extracted)))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	dst := filepath.Join(dir, path.Base(inner))

	if err := copyZipFile(nested, dst); err != nil {
		return "", err
	}

	n.extracted[key] = dst
	n.stats.Extracted++
	return dst, nil
}

func copyZipFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return out.Close()
}

// filterEntries evaluates entries concurrently and keeps input order.
func (n *Normalizer) filterEntries(ctx context.Context, entries []Entry) ([]Entry, error) {
	if n.filter == nil {
		return entries, nil
	}

	reasons := make([]string, len(entries))
	rejected := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)
	for i := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reasons[i], rejected[i] = n.filter.Evaluate(entries[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("class list validation interrupted: %w", err)
	}

	accepted := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if !rejected[i] {
			accepted = append(accepted, e)
			continue
		}
		n.stats.Rejected++
		n.logger.Warn("class rejected",
			zap.String("class", e.Name),
			zap.String("source", e.Source),
			zap.String("reason", reasons[i]),
		)
	}
	return accepted, nil
}

func writeFile(name string, entries []Entry) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
