package engine

import (
	"fmt"

	"github.com/opticampus/lab-scheduler/internal/models"
)

// balanceParity enforces the hard parity constraint: at most one group
// per subject may have an odd student count, and only when the subject's
// total student count is itself odd. It mutates groups in place and
// returns a non-empty advisory string if the constraint could not be
// fully satisfied after convergence.
//
// The inner search tries the j -> i transfer direction (later index into
// earlier index) before i -> j on every pair, per the original's
// documented bias toward filling earlier-indexed groups first. There is
// no documented rationale for the direction beyond determinism, but it is
// preserved exactly (see DESIGN.md Open Question #2).
func balanceParity(groups []*models.LabGroup, isDual map[string]bool, reserved map[int]bool) string {
	total := 0
	for _, g := range groups {
		total += len(g.Students)
	}
	permit := 0
	if total%2 == 1 {
		permit = 1
	}

	for {
		odds := oddIndices(groups)
		if len(odds) <= permit {
			return ""
		}

		moved := false
		for i := 0; i < len(odds) && !moved; i++ {
			for j := i + 1; j < len(odds) && !moved; j++ {
				a, b := odds[i], odds[j]
				if transferOne(groups, b, a, isDual, reserved) {
					moved = true
					break
				}
				if transferOne(groups, a, b, isDual, reserved) {
					moved = true
					break
				}
			}
		}
		if !moved {
			return fmt.Sprintf(
				"no fue posible equilibrar la paridad por completo (capacidad/mixto); quedan %d grupo(s) impares adicionales",
				len(odds)-permit)
		}
	}
}

func oddIndices(groups []*models.LabGroup) []int {
	var odds []int
	for i, g := range groups {
		if len(g.Students)%2 == 1 {
			odds = append(odds, i)
		}
	}
	return odds
}

// transferOne moves one transferable student from groups[src] to
// groups[dst]. A student is transferable iff the destination has
// remaining capacity and, if the student is a dual-group member for this
// subject, the destination is mixed-eligible.
func transferOne(groups []*models.LabGroup, src, dst int, isDual map[string]bool, reserved map[int]bool) bool {
	if groups[dst].AtCapacity() {
		return false
	}
	destMixedEligible := reserved[dst] || groups[dst].Mixed
	for i, studentID := range groups[src].Students {
		if isDual[studentID] && !destMixedEligible {
			continue
		}
		groups[src].Students = append(groups[src].Students[:i], groups[src].Students[i+1:]...)
		groups[dst].Students = append(groups[dst].Students, studentID)
		return true
	}
	return false
}
