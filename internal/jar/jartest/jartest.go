// Package jartest builds small jar files for tests.
package jartest

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
)

const Manifest = "Manifest-Version: 1.0\r\nCreated-By: jartest\r\n\r\n"

// SignatureFile is a minimal META-INF/*.SF body carrying a manifest digest.
const SignatureFile = "Signature-Version: 1.0\r\n" +
	"SHA-256-Digest-Manifest: 3q2+7w==\r\n" +
	"Created-By: jartest\r\n\r\n" +
	"Name: com/example/App.class\r\n" +
	"SHA-256-Digest: AAAA\r\n\r\n"

// Write creates a jar at path containing files (name -> content).
func Write(t testing.TB, path string, files map[string]string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	w := zip.NewWriter(f)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(files[name])); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close jar %s: %v", path, err)
	}
	return path
}

// Unsigned creates a jar with a manifest and one class.
func Unsigned(t testing.TB, path string) string {
	return Write(t, path, map[string]string{
		"META-INF/MANIFEST.MF":  Manifest,
		"com/example/App.class": "\xca\xfe\xba\xbe",
	})
}

// Signed creates a jar with a manifest, a signature file and its RSA block.
func Signed(t testing.TB, path string) string {
	return Write(t, path, map[string]string{
		"META-INF/MANIFEST.MF":  Manifest,
		"META-INF/SIGNER.SF":    SignatureFile,
		"META-INF/SIGNER.RSA":   "pkcs7",
		"com/example/App.class": "\xca\xfe\xba\xbe",
	})
}
