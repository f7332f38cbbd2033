package utils

// CycleEnumPtr moves *current by direction over the values 0..max, wrapping
// at both ends.
func CycleEnumPtr[T ~int](current *T, direction int, max T) {
	*current = (*current + T(direction) + max + 1) % (max + 1)
}
