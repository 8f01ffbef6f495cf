package crowding

import (
	"github.com/travigo/crowding/pkg/ctdf"
	"github.com/travigo/crowding/pkg/topology"
)

// MapCarriages lays normalised values over the line's carriages in order. The output always has
// exactly line.CarriageCount entries: missing carriages are padded as unknown and extra upstream
// values are dropped. No data records map to all unknown.
func MapCarriages(line *topology.Line, normalized *ctdf.NormalizedCrowdingRecord) []ctdf.CarriageOccupancy {
	carriages := make([]ctdf.CarriageOccupancy, line.CarriageCount)

	for i := range carriages {
		carriage := ctdf.CarriageOccupancy{
			Label: line.CarriageLabels[i],
			Level: ctdf.OccupancyLevelUnknown,
		}

		switch {
		case normalized == nil || normalized.NoData:
		case i >= len(normalized.Carriages):
			carriage.Padded = true
		default:
			value := normalized.Carriages[i]
			carriage.Clamped = value.Clamped

			if value.Known() {
				percentage := *value.Percentage
				carriage.Percentage = &percentage
				carriage.Level = ctdf.LevelForPercentage(percentage)
			}
		}

		carriages[i] = carriage
	}

	return carriages
}
