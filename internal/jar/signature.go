package jar

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	metaInf      = "META-INF/"
	manifestName = "META-INF/MANIFEST.MF"
)

// signatureBlockExts are the extensions of PKCS#7 signature blocks that
// accompany a .SF file.
var signatureBlockExts = []string{".RSA", ".DSA", ".EC"}

// Inspector reports the manifest digests recorded by the signers of a jar.
// An empty result means the jar is not signed.
type Inspector interface {
	ManifestDigests(path string) ([]string, error)
}

// ZipInspector reads signature files straight from the jar's zip directory.
type ZipInspector struct{}

// NewInspector returns the default Inspector.
func NewInspector() *ZipInspector {
	return &ZipInspector{}
}

var _ Inspector = (*ZipInspector)(nil)

// ManifestDigests returns every "<alg>-Digest-Manifest" attribute, formatted as
// "name: value", found in the main section of a META-INF/*.SF file that has a
// matching signature block. Jars without a manifest have no digests.
func (z *ZipInspector) ManifestDigests(jarPath string) ([]string, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open jar %s: %w", jarPath, err)
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[strings.ToUpper(f.Name)] = f
	}

	if _, ok := files[manifestName]; !ok {
		return nil, nil
	}

	var digests []string
	for _, upper := range slices.Sorted(maps.Keys(files)) {
		if !isSignatureFile(upper) || !hasSignatureBlock(files, upper) {
			continue
		}
		f := files[upper]

		sf, err := readManifest(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in %s: %w", f.Name, jarPath, err)
		}

		for _, name := range sf.Main.Names() {
			if strings.HasSuffix(strings.ToUpper(name), "-DIGEST-MANIFEST") {
				value, _ := sf.Main.Get(name)
				digests = append(digests, name+": "+value)
			}
		}
	}

	return digests, nil
}

// isSignatureFile matches META-INF/<name>.SF directly under META-INF.
func isSignatureFile(upper string) bool {
	if !strings.HasPrefix(upper, metaInf) || !strings.HasSuffix(upper, ".SF") {
		return false
	}
	return !strings.Contains(strings.TrimPrefix(upper, metaInf), "/")
}

func hasSignatureBlock(files map[string]*zip.File, upperSF string) bool {
	base := strings.TrimSuffix(upperSF, path.Ext(upperSF))
	for _, ext := range signatureBlockExts {
		if _, ok := files[base+ext]; ok {
			return true
		}
	}
	return false
}

func readManifest(f *zip.File) (*Manifest, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseManifest(rc)
}
