package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fitstudio/models"
)

// Solver statuses.
const (
	StatusOptimal        = "OPTIMAL"
	StatusInfeasible     = "INFEASIBLE"
	StatusNoAvailability = "NO_AVAILABILITY"
)

// StatusPartial formats the status for an assignment of n sessions where
// fewer than the requested count could be placed, or where the time budget
// ran out before optimality was proven.
func StatusPartial(n int) string {
	return fmt.Sprintf("PARTIAL_SOLUTION(%d)", n)
}

// Assignment is one selected slot together with its normalized confidence.
type Assignment struct {
	Cell       models.TimeSlotCell
	Confidence float64
}

type SolveResult struct {
	Assignments []Assignment
	Status      string
	Requested   int
	SolveTime   time.Duration
	TimedOut    bool
}

// Solver runs an exact depth-first branch and bound over the model's
// candidates. Candidates are explored in (date, hour) order with the "take"
// branch before the "skip" branch, and a new incumbent must be strictly
// better than the current one, so for a fixed score the solver always
// returns the lexicographically earliest assignment. Identical model plus
// identical occupancy yields an identical suggestion list.
type Solver struct {
	Budget time.Duration
}

func NewSolver(budget time.Duration) *Solver {
	return &Solver{Budget: budget}
}

type searchState struct {
	m        *Model
	deadline time.Time
	topSums  [][]int // topSums[i][j] = sum of j best candidate scores in candidates[i:]

	chosen    []int
	bestSet   []int
	bestScore int
	nodes     int
	timedOut  bool
}

// Solve looks for the highest scoring assignment of m.Need candidates. When
// m.Need candidates cannot all be placed, it relaxes the target one session
// at a time down to a single session and returns the largest assignment it
// could find. On timeout the best incumbent found so far is returned with a
// partial status.
func (s *Solver) Solve(ctx context.Context, m *Model) *SolveResult {
	started := time.Now()
	res := &SolveResult{Requested: m.Need}

	if len(m.Candidates) == 0 || m.Need <= 0 {
		res.Status = StatusInfeasible
		res.SolveTime = time.Since(started)
		return res
	}

	deadline := started.Add(s.Budget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	st := &searchState{m: m, deadline: deadline, topSums: buildTopSums(m)}
	for need := m.Need; need >= 1; need-- {
		st.bestSet = nil
		st.bestScore = -1
		st.chosen = st.chosen[:0]
		st.search(need, 0, 0)

		if st.bestSet != nil {
			res.Assignments = s.assignments(m, st.bestSet)
			if need == m.Need && !st.timedOut {
				res.Status = StatusOptimal
			} else {
				res.Status = StatusPartial(need)
			}
			break
		}
		if st.timedOut {
			break
		}
	}
	if res.Assignments == nil {
		res.Status = StatusInfeasible
	}
	res.TimedOut = st.timedOut
	res.SolveTime = time.Since(started)
	return res
}

func (st *searchState) search(need, idx, score int) {
	if st.timedOut {
		return
	}
	st.nodes++
	if st.nodes%256 == 0 && time.Now().After(st.deadline) {
		st.timedOut = true
		return
	}

	remaining := need - len(st.chosen)
	if remaining == 0 {
		total := score + st.m.Weights.DateSpread*distinctDates(st.m, st.chosen)
		if total > st.bestScore {
			st.bestScore = total
			st.bestSet = append(st.bestSet[:0], st.chosen...)
		}
		return
	}
	if len(st.m.Candidates)-idx < remaining {
		return
	}
	// Optimistic bound: best possible remaining scores plus full spread bonus.
	bound := score + st.topSums[idx][remaining] + st.m.Weights.DateSpread*need
	if bound <= st.bestScore {
		return
	}

	st.chosen = append(st.chosen, idx)
	st.search(need, idx+1, score+st.m.Candidates[idx].score)
	st.chosen = st.chosen[:len(st.chosen)-1]

	st.search(need, idx+1, score)
}

func distinctDates(m *Model, chosen []int) int {
	seen := make(map[string]bool, len(chosen))
	for _, i := range chosen {
		seen[m.Candidates[i].cell.Date] = true
	}
	return len(seen)
}

func buildTopSums(m *Model) [][]int {
	n := len(m.Candidates)
	k := m.Need
	sums := make([][]int, n+1)
	sums[n] = make([]int, k+1)
	for i := n - 1; i >= 0; i-- {
		// Scores of candidates[i:], descending.
		tail := make([]int, 0, n-i)
		for j := i; j < n; j++ {
			tail = append(tail, m.Candidates[j].score)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(tail)))

		sums[i] = make([]int, k+1)
		for j := 1; j <= k; j++ {
			sums[i][j] = sums[i][j-1]
			if j-1 < len(tail) {
				sums[i][j] += tail[j-1]
			}
		}
	}
	return sums
}

func (s *Solver) assignments(m *Model, set []int) []Assignment {
	out := make([]Assignment, 0, len(set))
	for _, i := range set {
		c := m.Candidates[i]
		conf := 0.0
		if m.maxScore > 0 {
			conf = float64(c.score) / float64(m.maxScore) * 100
		}
		out = append(out, Assignment{Cell: c.cell, Confidence: conf})
	}
	return out
}
