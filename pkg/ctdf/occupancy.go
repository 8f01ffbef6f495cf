package ctdf

type OccupancyLevel string

const (
	OccupancyLevelLow      OccupancyLevel = "low"
	OccupancyLevelModerate OccupancyLevel = "moderate"
	OccupancyLevelHigh     OccupancyLevel = "high"
	OccupancyLevelFull     OccupancyLevel = "full"
	OccupancyLevelUnknown  OccupancyLevel = "unknown"
)

// Lower bounds are inclusive, everything from 80 up to 100 is full
const (
	OccupancyModerateThreshold = 20.0
	OccupancyHighThreshold     = 50.0
	OccupancyFullThreshold     = 80.0
)

// LevelForPercentage buckets a percentage that has already been clamped into [0,100]
func LevelForPercentage(percentage float64) OccupancyLevel {
	switch {
	case percentage >= OccupancyFullThreshold:
		return OccupancyLevelFull
	case percentage >= OccupancyHighThreshold:
		return OccupancyLevelHigh
	case percentage >= OccupancyModerateThreshold:
		return OccupancyLevelModerate
	default:
		return OccupancyLevelLow
	}
}

type CarriageOccupancy struct {
	Label      string         `json:"label" groups:"basic"`
	Level      OccupancyLevel `json:"level" groups:"basic"`
	Percentage *float64       `json:"percentage,omitempty" groups:"basic"`

	// Clamped is set when the upstream value was outside [0,100]
	Clamped bool `json:"clamped" groups:"detailed"`
	// Padded is set when upstream sent fewer carriages than the line has
	Padded bool `json:"padded" groups:"detailed"`
}
