package services

// relocate removes the element at fromIndex in src and inserts it at
// toIndex in dst, returning the updated sequences. toIndex addresses the
// destination after the removal has taken effect; a drag-drop caller
// moving an item forward within one sequence compensates its drop
// position before calling. An out-of-range toIndex clamps to the ends,
// an out-of-range fromIndex is a no-op.
func relocate[T any](src []T, fromIndex int, dst []T, toIndex int, same bool) ([]T, []T) {
	if fromIndex < 0 || fromIndex >= len(src) {
		return src, dst
	}

	item := src[fromIndex]
	src = append(src[:fromIndex], src[fromIndex+1:]...)

	if same {
		dst = src
	}

	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(dst) {
		toIndex = len(dst)
	}

	dst = append(dst, item)
	copy(dst[toIndex+1:], dst[toIndex:])
	dst[toIndex] = item

	if same {
		return dst, dst
	}
	return src, dst
}
