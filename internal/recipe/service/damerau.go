package service

// damerauLevenshtein is the optimal-string-alignment distance: insert, delete,
// substitute and swap of adjacent runes, each costing 1. Three rolling rows
// instead of the full matrix; time stays O(len(a)*len(b)).
func damerauLevenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)
	if al == 0 {
		return bl
	}
	if bl == 0 {
		return al
	}

	prev2 := make([]int, bl+1) // row i-2
	prev := make([]int, bl+1)  // row i-1
	cur := make([]int, bl+1)   // row i
	for j := 0; j <= bl; j++ {
		prev[j] = j
	}

	for i := 1; i <= al; i++ {
		cur[0] = i
		for j := 1; j <= bl; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			// insert / delete / substitute
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)

			// adjacent transposition
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[bl]
}
