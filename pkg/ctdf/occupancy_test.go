package ctdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForPercentage(t *testing.T) {
	tests := []struct {
		percentage float64
		level      OccupancyLevel
	}{
		{0, OccupancyLevelLow},
		{19.999, OccupancyLevelLow},
		{20, OccupancyLevelModerate},
		{49.5, OccupancyLevelModerate},
		{50, OccupancyLevelHigh},
		{79.9, OccupancyLevelHigh},
		{80, OccupancyLevelFull},
		{100, OccupancyLevelFull},
	}

	for _, test := range tests {
		assert.Equal(t, test.level, LevelForPercentage(test.percentage), test.percentage)
	}
}

func TestParseDirection(t *testing.T) {
	for _, value := range []string{"inbound", "Inbound", " OUTBOUND "} {
		direction, err := ParseDirection(value)
		require.NoError(t, err, value)
		assert.True(t, direction.Valid())
	}

	for _, value := range []string{"", "WB", "northbound"} {
		_, err := ParseDirection(value)
		assert.Error(t, err, value)
	}
}

func TestLineSelectionString(t *testing.T) {
	selection := LineSelection{LineID: "central", StationID: "940GZZLUBNK", Direction: DirectionInbound}
	assert.Equal(t, "central/940GZZLUBNK/inbound", selection.String())
}
