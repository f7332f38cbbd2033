package utils

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
)

// MemorySize represents a memory size in bytes
type MemorySize int64

const (
	Byte MemorySize = 1
	KB   MemorySize = 1024 * Byte
	MB   MemorySize = 1024 * KB
	GB   MemorySize = 1024 * MB
	TB   MemorySize = 1024 * GB
)

// String returns a human-readable representation of the memory size
func (m MemorySize) String() string {
	if m <= 0 {
		return "0B"
	}

	formatValue := func(val float64, unit string) string {
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f%s", val, unit)
		}
		return fmt.Sprintf("%.2f%s", val, unit)
	}

	switch {
	case m >= TB:
		return formatValue(float64(m)/float64(TB), "T")
	case m >= GB:
		return formatValue(float64(m)/float64(GB), "G")
	case m >= MB:
		return formatValue(float64(m)/float64(MB), "M")
	case m >= KB:
		return formatValue(float64(m)/float64(KB), "K")
	default:
		return fmt.Sprintf("%dB", m)
	}
}

// ParseJVMSize parses the value part of a JVM size option such as the "40g"
// in -Xmx40g or the "0x100000" in -XX:MaxHeapSize=0x100000.
//
// A leading "0x" switches the magnitude to base 16. When the last character
// is a digit the whole string is the magnitude in bytes, otherwise it must be
// one of K, M, G or T (any case). Hex magnitudes ending in a-f therefore do
// not parse, the same way the launcher treats them. Sizes are never signed.
func ParseJVMSize(s string) (MemorySize, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty memory size string")
	}

	base := 10
	digits := s
	if len(digits) > 2 && digits[:2] == "0x" {
		base = 16
		digits = digits[2:]
	}

	if digits[0] == '-' || digits[0] == '+' {
		return 0, fmt.Errorf("signed memory size: %s", s)
	}

	last := rune(digits[len(digits)-1])
	if unicode.IsDigit(last) {
		value, err := strconv.ParseInt(digits, base, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid memory size: %s", s)
		}
		return MemorySize(value), nil
	}

	var multiplier MemorySize
	switch unicode.ToUpper(last) {
	case 'T':
		multiplier = TB
	case 'G':
		multiplier = GB
	case 'M':
		multiplier = MB
	case 'K':
		multiplier = KB
	default:
		return 0, fmt.Errorf("invalid memory size unit %q: %s", last, s)
	}

	value, err := strconv.ParseInt(digits[:len(digits)-1], base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory size: %s", s)
	}

	if value > math.MaxInt64/int64(multiplier) {
		return 0, fmt.Errorf("memory size overflows int64: %s", s)
	}

	return MemorySize(value) * multiplier, nil
}
