package crowding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/crowding/pkg/ctdf"
	"github.com/travigo/crowding/pkg/topology"
)

func centralLine(t *testing.T) *topology.Line {
	catalog, err := topology.Default()
	require.NoError(t, err)

	line, err := catalog.Lookup("central")
	require.NoError(t, err)

	return line
}

func levels(carriages []ctdf.CarriageOccupancy) []ctdf.OccupancyLevel {
	result := make([]ctdf.OccupancyLevel, len(carriages))
	for i, carriage := range carriages {
		result[i] = carriage.Level
	}
	return result
}

func TestMapCarriages(t *testing.T) {
	line := centralLine(t)

	t.Run("pads short trains", func(t *testing.T) {
		normalized, err := Normalize(rawBody(`{"trains":{"T1":[10,25,55,82,5,"unknown"]}}`), line.CarriageCount)
		require.NoError(t, err)

		carriages := MapCarriages(line, normalized)
		require.Len(t, carriages, 8)

		assert.Equal(t, []ctdf.OccupancyLevel{
			ctdf.OccupancyLevelLow,
			ctdf.OccupancyLevelModerate,
			ctdf.OccupancyLevelHigh,
			ctdf.OccupancyLevelFull,
			ctdf.OccupancyLevelLow,
			ctdf.OccupancyLevelUnknown,
			ctdf.OccupancyLevelUnknown,
			ctdf.OccupancyLevelUnknown,
		}, levels(carriages))

		assert.Equal(t, "Car 1", carriages[0].Label)
		assert.Equal(t, "Car 8", carriages[7].Label)
		assert.False(t, carriages[5].Padded)
		assert.True(t, carriages[6].Padded)
		assert.True(t, carriages[7].Padded)
		assert.Nil(t, carriages[5].Percentage)
	})

	t.Run("truncates long trains", func(t *testing.T) {
		normalized, err := Normalize(rawBody(`{"trains":{"T1":[1,2,3,4,5,6,7,8,90,90]}}`), line.CarriageCount)
		require.NoError(t, err)

		carriages := MapCarriages(line, normalized)
		require.Len(t, carriages, 8)
		assert.Equal(t, 8.0, *carriages[7].Percentage)
	})

	t.Run("thresholds", func(t *testing.T) {
		normalized, err := Normalize(rawBody(`{"trains":{"T1":[0,19.99,20,49.9,50,79.99,80,100]}}`), line.CarriageCount)
		require.NoError(t, err)

		assert.Equal(t, []ctdf.OccupancyLevel{
			ctdf.OccupancyLevelLow,
			ctdf.OccupancyLevelLow,
			ctdf.OccupancyLevelModerate,
			ctdf.OccupancyLevelModerate,
			ctdf.OccupancyLevelHigh,
			ctdf.OccupancyLevelHigh,
			ctdf.OccupancyLevelFull,
			ctdf.OccupancyLevelFull,
		}, levels(MapCarriages(line, normalized)))
	})

	t.Run("clamped values keep their flag", func(t *testing.T) {
		normalized, err := Normalize(rawBody(`{"trains":{"T1":[-5,150]}}`), line.CarriageCount)
		require.NoError(t, err)

		carriages := MapCarriages(line, normalized)
		assert.Equal(t, ctdf.OccupancyLevelLow, carriages[0].Level)
		assert.Equal(t, 0.0, *carriages[0].Percentage)
		assert.True(t, carriages[0].Clamped)
		assert.Equal(t, ctdf.OccupancyLevelFull, carriages[1].Level)
		assert.True(t, carriages[1].Clamped)
		assert.False(t, carriages[2].Clamped)
	})

	t.Run("no data", func(t *testing.T) {
		carriages := MapCarriages(line, &ctdf.NormalizedCrowdingRecord{NoData: true})
		require.Len(t, carriages, 8)

		for _, carriage := range carriages {
			assert.Equal(t, ctdf.OccupancyLevelUnknown, carriage.Level)
			assert.False(t, carriage.Padded)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		normalized, err := Normalize(rawBody(`{"trains":{"T1":[10,25,55]}}`), line.CarriageCount)
		require.NoError(t, err)

		first := MapCarriages(line, normalized)
		second := MapCarriages(line, normalized)
		assert.Equal(t, first, second)

		*first[0].Percentage = 99
		assert.Equal(t, 10.0, *second[0].Percentage)
		assert.Equal(t, 10.0, *normalized.Carriages[0].Percentage)
	})
}
