package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeMixed(t *testing.T) {
	require.True(t, ComputeMixed([]string{"A404", "EE403"}))
	require.False(t, ComputeMixed([]string{"A404", "A405"}))
	require.False(t, ComputeMixed([]string{"EE403"}))
	require.False(t, ComputeMixed(nil))
}

func TestNormalizeGridBareList(t *testing.T) {
	raw := RawGrid{
		"9:30-11:30": {
			"Lunes": []interface{}{"A404", "EE403"},
		},
	}
	grid := NormalizeGrid(raw)
	cell := grid["09:30-11:30"]["Lunes"]
	require.ElementsMatch(t, []string{"A404", "EE403"}, cell.Groups)
	require.True(t, cell.Mixed)
}

func TestNormalizeGridObjectWithGroups(t *testing.T) {
	raw := RawGrid{
		"09:30-11:30": {
			"Lunes": map[string]interface{}{
				"groups": []interface{}{"A404"},
				"mixed":  true, // must be recomputed, not trusted
			},
		},
	}
	grid := NormalizeGrid(raw)
	cell := grid["09:30-11:30"]["Lunes"]
	require.Equal(t, []string{"A404"}, cell.Groups)
	require.False(t, cell.Mixed)
}

func TestNormalizeGridBooleanKeys(t *testing.T) {
	raw := RawGrid{
		"09:30-11:30": {
			"Lunes": map[string]interface{}{
				"A404":   true,
				"EE403":  false,
				"B101":   true,
			},
		},
	}
	grid := NormalizeGrid(raw)
	cell := grid["09:30-11:30"]["Lunes"]
	require.ElementsMatch(t, []string{"A404", "B101"}, cell.Groups)
}

func TestNormalizeGridMalformedCellBecomesEmpty(t *testing.T) {
	raw := RawGrid{
		"09:30-11:30": {
			"Lunes": 42,
		},
	}
	grid := NormalizeGrid(raw)
	cell := grid["09:30-11:30"]["Lunes"]
	require.Empty(t, cell.Groups)
	require.False(t, cell.Mixed)
}
