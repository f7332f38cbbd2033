package valid

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/jar"
)

const jarExt = ".jar"

// SignedJarValidator rejects classes loaded from signed jars. Archiving them
// would drop the signature check the JVM performs when it loads from the jar.
//
// Verdicts are cached per source path, and each distinct path is inspected at
// most once even when Check is called concurrently.
type SignedJarValidator struct {
	inspector jar.Inspector
	logger    *zap.Logger

	mu    sync.Mutex
	cache map[string]Verdict
	group singleflight.Group
}

// NewSignedJarValidator returns a validator that inspects jars with inspector.
func NewSignedJarValidator(inspector jar.Inspector, logger *zap.Logger) *SignedJarValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignedJarValidator{
		inspector: inspector,
		logger:    logger,
		cache:     make(map[string]Verdict),
	}
}

var _ Validator = (*SignedJarValidator)(nil)

func (v *SignedJarValidator) Name() string {
	return "SignedJarValidator"
}

// Check accepts entries without a source and otherwise returns the cached
// verdict for the source jar.
func (v *SignedJarValidator) Check(entry classlist.Entry) Verdict {
	if entry.Source == "" {
		return Valid
	}
	return v.CheckPath(entry.Source)
}

// CheckPath returns Invalid for a signed jar, Valid for an unsigned jar or any
// path that is not an existing .jar file, and Indeterminate when the jar
// cannot be read.
func (v *SignedJarValidator) CheckPath(path string) Verdict {
	if verdict, ok := v.cached(path); ok {
		return verdict
	}

	result, _, _ := v.group.Do(path, func() (any, error) {
		// A concurrent call may have filled the cache between the miss above
		// and entering Do.
		if verdict, ok := v.cached(path); ok {
			return verdict, nil
		}
		verdict := v.inspect(path)

		v.mu.Lock()
		v.cache[path] = verdict
		v.mu.Unlock()
		return verdict, nil
	})
	return result.(Verdict)
}

func (v *SignedJarValidator) cached(path string) (Verdict, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	verdict, ok := v.cache[path]
	return verdict, ok
}

func (v *SignedJarValidator) inspect(path string) Verdict {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || !strings.HasSuffix(strings.ToLower(filepath.Base(path)), jarExt) {
		return Valid
	}

	digests, err := v.inspector.ManifestDigests(path)
	if err != nil {
		v.logger.Warn("failed to inspect jar signature",
			zap.String("jar", path),
			zap.Error(err),
		)
		return Indeterminate
	}

	if len(digests) > 0 {
		v.logger.Debug("signed jar",
			zap.String("jar", path),
			zap.Strings("manifest_digests", digests),
		)
		return Invalid
	}
	return Valid
}

// DefaultChain returns the validators applied to every dump, in order.
func DefaultChain(inspector jar.Inspector, logger *zap.Logger) *Chain {
	return NewChain(
		NewSignedJarValidator(inspector, logger),
	)
}
