// Package jvmargs rewrites a captured JVM command line into the command line
// of an archive dump process.
package jvmargs

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mabhi256/jsadump/utils"
)

// ErrParse indicates a JVM option the rewriter cannot reason about.
var ErrParse = errors.New("jvmargs: parse error")

// CompressedPointersThreshold is the heap size from which the JVM can no
// longer use compressed oops and compressed class pointers.
const CompressedPointersThreshold = 32 * utils.GB

const (
	DisableCompressedOops          = "-XX:-UseCompressedOops"
	DisableCompressedClassPointers = "-XX:-UseCompressedClassPointers"
)

// disallowedPrefixes are options that must not reach the dump process.
var disallowedPrefixes = []string{
	"-Xshare:off",
	"-XX:SharedClassListFile",
	"-XX:DumpLoadedClassList",
	// JDK 8 CDS only dumps with the bootstrap loader; lambdas triggered early
	// by Wisp would fail the dump.
	"-XX:+UseWisp2",
	"-Xquickstart",
	"-agentlib:jdwp",
	"-Dcom.sun.management.jmxremote.port",
	"-Dcom.sun.management.jmxremote.rmi.port",
	"-Xdebug",
	"-Xrunjdwp",
	"-javaagent",
}

// heapSizeOptions set the maximum heap size. Order does not matter.
var heapSizeOptions = []string{
	"-Xmx",
	"-XX:MaxHeapSize=",
}

// memoryOptions are removed so the dump process runs with default sizing.
var memoryOptions = []string{
	"-XX:MaxHeapSize", "-XX:InitialHeapSize", "-Xms", "-Xmn", "-Xmx",
	"-Xss", "-XX:MaxMetaspaceSize", "-XX:MetaspaceSize", "-XX:MaxDirectMemorySize",
	"-XX:NewSize", "-XX:MaxNewSize",
}

// FilterResult is the outcome of filtering the runtime tokens.
type FilterResult struct {
	// Args are the runtime tokens that survive, plus any corrective flags.
	Args []string

	// HeapSize is the effective maximum heap size, 0 when none was set.
	HeapSize utils.MemorySize

	// CompressedPointersDisabled reports whether the corrective flags were appended.
	CompressedPointersDisabled bool
}

// Filter drops disallowed options, appends the compressed-pointer flags when
// the effective heap is at least 32G, then drops all memory sizing options.
// The input slice is not modified.
func Filter(tokens []string) (*FilterResult, error) {
	args := RemoveDisallowed(tokens)

	heap, err := EffectiveHeapSize(args)
	if err != nil {
		return nil, err
	}

	result := &FilterResult{HeapSize: heap}
	if heap >= CompressedPointersThreshold {
		if !slices.Contains(args, DisableCompressedOops) {
			args = append(args, DisableCompressedOops)
		}
		if !slices.Contains(args, DisableCompressedClassPointers) {
			args = append(args, DisableCompressedClassPointers)
		}
		result.CompressedPointersDisabled = true
	}

	result.Args = RemoveMemoryOptions(args)
	return result, nil
}

// RemoveDisallowed returns tokens without disallowed options and blank tokens.
func RemoveDisallowed(tokens []string) []string {
	return slices.DeleteFunc(slices.Clone(tokens), func(arg string) bool {
		return strings.TrimSpace(arg) == "" || hasAnyPrefix(arg, disallowedPrefixes)
	})
}

// RemoveMemoryOptions returns tokens without heap, stack, metaspace, direct
// memory and young generation sizing options.
func RemoveMemoryOptions(tokens []string) []string {
	return slices.DeleteFunc(slices.Clone(tokens), func(arg string) bool {
		return hasAnyPrefix(arg, memoryOptions)
	})
}

// EffectiveHeapSize scans tokens from the end and returns the first nonzero
// maximum heap size. Both spellings compete: the rightmost one wins.
func EffectiveHeapSize(tokens []string) (utils.MemorySize, error) {
	for i := len(tokens) - 1; i >= 0; i-- {
		arg := tokens[i]
		for _, opt := range heapSizeOptions {
			value, ok := strings.CutPrefix(arg, opt)
			if !ok {
				continue
			}

			size, err := utils.ParseJVMSize(value)
			if err != nil {
				return 0, fmt.Errorf("%w: %s: %v", ErrParse, arg, err)
			}
			if size != 0 {
				return size, nil
			}
			break
		}
	}
	return 0, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
