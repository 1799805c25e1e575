package xutil

// Quicksort sorts a in place using cmp(a[i], a[j]) < 0 to mean a[i] should
// sort before a[j]. The partition scheme follows the original runtime's
// pq_sort_partition/pq_sort_recurse pair: a Hoare-style in-place partition
// around the last element, recursing on both halves. The constrained hash
// cache's shadow array eviction sort uses this instead of sort.Slice, the
// way the teacher's
// std/sort package rolls its own comparison loop (StringLess) rather than
// calling into anything else.
func Quicksort[T any](a []T, cmp func(x, y T) int) {
	if len(a) < 2 {
		return
	}
	quicksortRecurse(a, 0, len(a)-1, cmp)
}

func quicksortRecurse[T any](a []T, l, h int, cmp func(x, y T) int) {
	if h <= l {
		return
	}
	j := quicksortPartition(a, l, h, cmp)
	quicksortRecurse(a, l, j-1, cmp)
	quicksortRecurse(a, j+1, h, cmp)
}

func quicksortPartition[T any](a []T, l, h int, cmp func(x, y T) int) int {
	i := l - 1
	j := h
	v := a[h]

	for {
		i++
		for cmp(a[i], v) < 0 {
			i++
		}
		j--
		for cmp(a[j], v) > 0 {
			if j == i {
				break
			}
			j--
		}
		if i >= j {
			break
		}
		a[i], a[j] = a[j], a[i]
	}
	a[i], a[h] = a[h], a[i]
	return i
}

// InsertionSortStrings sorts s in place, in the teacher's own idiom
// (std/sort.Strings): a plain shift-down insertion sort with no
// abstraction. Kept for small, already-nearly-sorted slices; nothing else
// in this module calls it (the string hash table iterates in table order).
func InsertionSortStrings(s []string) {
	n := len(s)
	i := 1
	for i < n {
		j := i
		for j > 0 && s[j] < s[j-1] {
			s[j], s[j-1] = s[j-1], s[j]
			j--
		}
		i++
	}
}
