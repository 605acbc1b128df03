package listctl

// Ratio returns part/whole, or 0 when whole is 0.
func Ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}

// Percent returns part/whole as a percentage, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	return Ratio(part, whole) * 100
}

// Count returns how many entities satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Sum adds up value over every entity satisfying pred. A nil pred matches all.
func Sum[T any](items []T, value func(T) float64, pred func(T) bool) float64 {
	var total float64
	for _, it := range items {
		if pred == nil || pred(it) {
			total += value(it)
		}
	}
	return total
}

// CountBy groups entities by key and counts each group.
func CountBy[T any](items []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}
