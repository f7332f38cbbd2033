// Package jdk locates the JDK installation used to run the dump process.
package jdk

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

var ErrNotFound = errors.New("jdk not found")

// archNames maps GOARCH to the JVM os.arch property, which names the
// per-architecture directory under lib/ in JDK 8 images.
var archNames = map[string]string{
	"amd64":    "amd64",
	"arm64":    "aarch64",
	"386":      "i386",
	"arm":      "arm",
	"ppc64":    "ppc64",
	"ppc64le":  "ppc64le",
	"s390x":    "s390x",
	"riscv64":  "riscv64",
	"loong64":  "loongarch64",
	"mips64le": "mips64el",
}

// OSArch returns the JVM os.arch name for goarch, or goarch itself when no
// mapping is known.
func OSArch(goarch string) string {
	if name, ok := archNames[goarch]; ok {
		return name
	}
	return goarch
}

// Home is a located JDK. RuntimeDir is what the JVM reports as java.home:
// the nested jre/ of a JDK 8 image, otherwise Dir.
type Home struct {
	Dir        string
	RuntimeDir string
	Arch       string
}

// Java returns the path of the java launcher.
func (h Home) Java() string {
	return filepath.Join(h.Dir, "bin", "java")
}

// AgentPath returns the path of a native agent library under
// <java.home>/lib/<os.arch>.
func (h Home) AgentPath(agent string) string {
	root := h.RuntimeDir
	if root == "" {
		root = h.Dir
	}
	return filepath.Join(root, "lib", h.Arch, agent)
}

// Locator resolves the JDK home. The zero value reads the process
// environment and PATH.
type Locator struct {
	JavaHome string // explicit home, takes precedence over everything
	Arch     string // overrides the os.arch derived from runtime.GOARCH

	Getenv   func(string) string
	LookPath func(string) (string, error)
}

// Locate tries the explicit home, then JAVA_HOME, then java on PATH.
func (l Locator) Locate() (Home, error) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	arch := l.Arch
	if arch == "" {
		arch = OSArch(runtime.GOARCH)
	}

	if l.JavaHome != "" {
		return resolve(l.JavaHome, arch)
	}
	if env := getenv("JAVA_HOME"); env != "" {
		return resolve(env, arch)
	}

	java, err := lookPath("java")
	if err != nil {
		return Home{}, fmt.Errorf("%w: JAVA_HOME is not set and java is not on PATH", ErrNotFound)
	}
	if real, err := filepath.EvalSymlinks(java); err == nil {
		java = real
	}
	return resolve(filepath.Dir(filepath.Dir(java)), arch)
}

func resolve(dir, arch string) (Home, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Home{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	// JDK 8 ships a nested jre/ with its own bin/java. The launcher of the
	// JDK root is used, while java.home stays the jre/.
	if filepath.Base(abs) == "jre" {
		parent := filepath.Dir(abs)
		if isFile(filepath.Join(parent, "bin", "java")) {
			abs = parent
		}
	}

	home := Home{Dir: abs, RuntimeDir: abs, Arch: arch}
	if !isFile(home.Java()) {
		return Home{}, fmt.Errorf("%w: no bin/java under %s", ErrNotFound, abs)
	}
	if jre := filepath.Join(abs, "jre"); isFile(filepath.Join(jre, "bin", "java")) {
		home.RuntimeDir = jre
	}
	return home, nil
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
