package ctdf

import "time"

type DataFreshness string

const (
	DataFreshnessLive        DataFreshness = "live"
	DataFreshnessStale       DataFreshness = "stale"
	DataFreshnessUnavailable DataFreshness = "unavailable"
)

// RawCrowdingRecord is an unvalidated 2xx response body from the crowding API
type RawCrowdingRecord struct {
	Body       []byte
	URL        string
	StatusCode int
	FetchedAt  time.Time
}

// CarriageValue is a single normalised carriage reading, a nil Percentage means unknown
type CarriageValue struct {
	Percentage *float64
	Clamped    bool
}

func (v CarriageValue) Known() bool {
	return v.Percentage != nil
}

type NormalizedCrowdingRecord struct {
	NoData bool

	VehicleID  string
	TrainCount int
	Carriages  []CarriageValue

	LengthMismatch bool
	ClampedCount   int
	SkippedTrains  []string

	UpstreamTime *time.Time
}

type CrowdingResult struct {
	Selection LineSelection `json:"selection" groups:"basic"`

	LineName    string `json:"lineName" groups:"detailed"`
	StationName string `json:"stationName" groups:"detailed"`
	Colour      string `json:"colour" groups:"detailed"`

	Carriages []CarriageOccupancy `json:"carriages" groups:"basic"`
	Freshness DataFreshness       `json:"freshness" groups:"basic"`

	VehicleID      string     `json:"vehicleId,omitempty" groups:"detailed"`
	LengthMismatch bool       `json:"lengthMismatch" groups:"detailed"`
	GeneratedAt    time.Time  `json:"generatedAt" groups:"detailed"`
	UpstreamTime   *time.Time `json:"upstreamTime,omitempty" groups:"detailed"`

	DataSource *DataSource `json:"dataSource,omitempty" groups:"internal"`
}
