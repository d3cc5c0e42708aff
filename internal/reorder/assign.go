package reorder

// solveAssignment finds a minimum-cost bijection rows -> columns over a
// square cost matrix, skipping forbidden edges. Ties resolve toward the
// permutation with the fewest positions moved off the diagonal, then toward
// the lexicographically smallest permutation. Costs must be non-negative;
// the search prunes on that assumption.
//
// The matrix stays free of call-site types on purpose: the solver is
// exercised with synthetic matrices in tests and knows nothing about
// arguments. Exhaustive enumeration is fine at the arities real call sites
// have; callers bound n before building the matrix.
//
// ok is false when every complete assignment crosses a forbidden edge.
func solveAssignment(cost [][]float64) (perm []int, total float64, ok bool) {
	n := len(cost)
	if n == 0 {
		return nil, 0, false
	}
	st := &assignSearch{
		cost:    cost,
		used:    make([]bool, n),
		current: make([]int, n),
		best:    make([]int, n),
	}
	st.search(0, 0)
	if !st.found {
		return nil, 0, false
	}
	return st.best, st.bestCost, true
}

type assignSearch struct {
	cost      [][]float64
	used      []bool
	current   []int
	best      []int
	bestCost  float64
	bestMoves int
	found     bool
}

// search enumerates column choices for each row in ascending order, so the
// first complete assignment among equals is the lexicographically smallest.
func (st *assignSearch) search(row int, partial float64) {
	n := len(st.cost)
	if row == n {
		moves := countMoves(st.current)
		if !st.found || partial < st.bestCost || (partial == st.bestCost && moves < st.bestMoves) {
			st.found = true
			st.bestCost = partial
			st.bestMoves = moves
			copy(st.best, st.current)
		}
		return
	}
	for col := 0; col < n; col++ {
		if st.used[col] {
			continue
		}
		c := st.cost[row][col]
		if IsForbidden(c) {
			continue
		}
		next := partial + c
		// Equal partial cost must continue: a completion can tie on cost
		// and win on fewer moves.
		if st.found && next > st.bestCost {
			continue
		}
		st.used[col] = true
		st.current[row] = col
		st.search(row+1, next)
		st.used[col] = false
	}
}

func countMoves(perm []int) int {
	moves := 0
	for i, p := range perm {
		if p != i {
			moves++
		}
	}
	return moves
}

func isIdentity(perm []int) bool {
	for i, p := range perm {
		if p != i {
			return false
		}
	}
	return true
}
