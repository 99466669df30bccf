package engine

import "github.com/opticampus/lab-scheduler/internal/models"

// ComputeMixed reports whether a list of academic-group codes contains at
// least one simple-pattern code and at least one dual-pattern code.
func ComputeMixed(codes []string) bool {
	hasSimple, hasDual := false, false
	for _, c := range codes {
		switch models.ClassifyGroupCode(c) {
		case models.GroupKindDual:
			hasDual = true
		default:
			hasSimple = true
		}
	}
	return hasSimple && hasDual
}

// RawGrid is the permissive, legacy-tolerant shape a subject's weekly
// schedule grid may arrive in from upstream storage, keyed time-range then
// weekday. Each cell may be:
//   - a bare list of group codes ([]interface{} of strings),
//   - an object with an explicit "groups" list (mixed is recomputed), or
//   - an object missing "groups" but carrying boolean-valued keys, where
//     truthy keys are treated as group codes.
type RawGrid map[string]map[string]interface{}

// NormalizeGrid walks a RawGrid and produces the canonical
// models.ScheduleGrid every downstream component consumes. Malformed
// cells silently become empty group lists rather than erroring: this is a
// deliberate tolerance, not an oversight, because upstream editors may
// produce heterogeneous legacy shapes and the engine must not abort on
// cosmetic inconsistencies.
func NormalizeGrid(raw RawGrid) models.ScheduleGrid {
	out := make(models.ScheduleGrid, len(raw))
	for timeRange, byWeekday := range raw {
		normalizedRange := NormalizeTimeRange(timeRange)
		row := make(map[string]models.GridCell, len(byWeekday))
		for weekday, cell := range byWeekday {
			row[weekday] = normalizeCell(cell)
		}
		out[normalizedRange] = row
	}
	return out
}

func normalizeCell(cell interface{}) models.GridCell {
	switch v := cell.(type) {
	case []interface{}:
		codes := toStringSlice(v)
		return models.GridCell{Groups: codes, Mixed: ComputeMixed(codes)}
	case map[string]interface{}:
		if groupsRaw, ok := v["groups"]; ok {
			codes := toStringSlice(groupsRaw)
			return models.GridCell{Groups: codes, Mixed: ComputeMixed(codes)}
		}
		var codes []string
		for key, val := range v {
			if truthy, ok := val.(bool); ok && truthy {
				codes = append(codes, key)
			}
		}
		return models.GridCell{Groups: codes, Mixed: ComputeMixed(codes)}
	default:
		return models.GridCell{}
	}
}

func toStringSlice(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
