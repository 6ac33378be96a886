package deck

// Pair is one slide's worth of input: a top line and its bottom counterpart.
type Pair struct {
	Top    string
	Bottom string
}

// SplitPairs lines up two text blocks row by row. Empty lines survive so the
// deck maps 1:1 onto the preview, the shorter block is padded with empty
// strings, and two empty blocks still produce one empty pair.
func SplitPairs(topBlock, bottomBlock string) []Pair {
	top := splitLines(topBlock)
	bottom := splitLines(bottomBlock)

	n := len(top)
	if len(bottom) > n {
		n = len(bottom)
	}
	if n == 0 {
		return []Pair{{}}
	}

	pairs := make([]Pair, n)
	for i := range pairs {
		if i < len(top) {
			pairs[i].Top = top[i]
		}
		if i < len(bottom) {
			pairs[i].Bottom = bottom[i]
		}
	}
	return pairs
}
