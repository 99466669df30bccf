// Package engine implements the laboratory scheduling core: input
// normalization, enrollment indexing, teacher/room resource tracking,
// subject planning and date interleaving.
package engine

import "strings"

// weekdayOrdinal maps every accented and unaccented Spanish weekday
// spelling to the same ordinal (Monday = 0 .. Sunday = 6). Accented and
// unaccented variants must resolve identically; this is the single
// normalization point rather than scattered equality checks.
var weekdayOrdinal = map[string]int{
	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"miércoles": 2,
	"jueves":    3,
	"viernes":   4,
	"sabado":    5,
	"sábado":    5,
	"domingo":   6,
}

// canonicalWeekday is the accented display form for each ordinal, used
// when emitting weekday labels.
var canonicalWeekday = [7]string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}

// WeekdayOrdinal resolves a Spanish weekday label (with or without
// accents, any case) to its ordinal. Unrecognized labels return -1.
func WeekdayOrdinal(label string) int {
	key := strings.ToLower(strings.TrimSpace(label))
	if ord, ok := weekdayOrdinal[key]; ok {
		return ord
	}
	return -1
}

// CanonicalWeekday returns the canonical accented spelling for an
// ordinal, or the empty string if out of range.
func CanonicalWeekday(ordinal int) string {
	if ordinal < 0 || ordinal > 6 {
		return ""
	}
	return canonicalWeekday[ordinal]
}

// SameWeekday reports whether two labels denote the same weekday,
// regardless of accenting.
func SameWeekday(a, b string) bool {
	oa, ob := WeekdayOrdinal(a), WeekdayOrdinal(b)
	return oa != -1 && oa == ob
}
