package crowding

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/travigo/crowding/pkg/ctdf"
	"golang.org/x/exp/slices"
)

var jsonNull = []byte("null")

// Normalize validates a raw crowding body against the expected carriage count.
//
// The body must be a JSON object. A missing/null/empty "trains" object or "dataAvailable": false
// is a valid no data state. Trains that are null or not an array of carriage values are skipped,
// the body is only malformed when every reported train is skipped. Carriage numbers are clamped
// into [0,100] and anything else is treated as unknown. When more than one usable train is reported
// the lowest vehicle id is used so the same body always produces the same record.
func Normalize(raw *ctdf.RawCrowdingRecord, expectedCarriageCount int) (*ctdf.NormalizedCrowdingRecord, error) {
	if raw == nil || len(bytes.TrimSpace(raw.Body)) == 0 {
		return &ctdf.NormalizedCrowdingRecord{NoData: true}, nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw.Body, &payload); err != nil {
		return nil, malformed("body is not a JSON object", err)
	}
	if payload == nil {
		return &ctdf.NormalizedCrowdingRecord{NoData: true}, nil
	}

	record := &ctdf.NormalizedCrowdingRecord{
		UpstreamTime: parseUpstreamTime(payload["timeUtc"]),
	}

	if availableJSON, exists := payload["dataAvailable"]; exists && !isNull(availableJSON) {
		var available bool
		if err := json.Unmarshal(availableJSON, &available); err != nil {
			return nil, malformed("dataAvailable is not a boolean", err)
		}

		if !available {
			record.NoData = true
			return record, nil
		}
	}

	trainsJSON, exists := payload["trains"]
	if !exists || isNull(trainsJSON) {
		record.NoData = true
		return record, nil
	}

	var trains map[string]json.RawMessage
	if err := json.Unmarshal(trainsJSON, &trains); err != nil {
		return nil, malformed("trains is not an object", err)
	}

	vehicleIDs := make([]string, 0, len(trains))
	carriagesByVehicle := make(map[string][]json.RawMessage, len(trains))
	for vehicleID, carriagesJSON := range trains {
		var carriages []json.RawMessage
		if isNull(carriagesJSON) || json.Unmarshal(carriagesJSON, &carriages) != nil {
			record.SkippedTrains = append(record.SkippedTrains, vehicleID)
			continue
		}

		vehicleIDs = append(vehicleIDs, vehicleID)
		carriagesByVehicle[vehicleID] = carriages
	}

	if len(trains) == 0 {
		record.NoData = true
		return record, nil
	}

	slices.Sort(record.SkippedTrains)
	if len(vehicleIDs) == 0 {
		return nil, malformed("no train has a carriage array (vehicles "+strings.Join(record.SkippedTrains, ", ")+")", nil)
	}

	slices.Sort(vehicleIDs)

	record.TrainCount = len(vehicleIDs)
	record.VehicleID = vehicleIDs[0]

	carriages := carriagesByVehicle[record.VehicleID]
	record.Carriages = make([]ctdf.CarriageValue, len(carriages))
	for i, carriageJSON := range carriages {
		value := normalizeCarriage(carriageJSON)
		if value.Clamped {
			record.ClampedCount++
		}
		record.Carriages[i] = value
	}

	record.LengthMismatch = len(record.Carriages) != expectedCarriageCount

	return record, nil
}

func normalizeCarriage(carriageJSON json.RawMessage) ctdf.CarriageValue {
	var value any
	if err := json.Unmarshal(carriageJSON, &value); err != nil {
		return ctdf.CarriageValue{}
	}

	percentage, isNumber := value.(float64)
	if !isNumber {
		return ctdf.CarriageValue{}
	}

	clamped := false
	if percentage < 0 {
		percentage = 0
		clamped = true
	} else if percentage > 100 {
		percentage = 100
		clamped = true
	}

	return ctdf.CarriageValue{Percentage: &percentage, Clamped: clamped}
}

func parseUpstreamTime(timeJSON json.RawMessage) *time.Time {
	if len(timeJSON) == 0 {
		return nil
	}

	var timeString string
	if err := json.Unmarshal(timeJSON, &timeString); err != nil {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, timeString)
	if err != nil {
		return nil
	}

	return &parsed
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), jsonNull)
}
