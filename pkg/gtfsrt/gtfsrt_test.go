package gtfsrt

import (
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/crowding/pkg/ctdf"
	"google.golang.org/protobuf/proto"
)

func percentage(value float64) *float64 {
	return &value
}

func TestFeedMessage(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 31, 0, 0, time.UTC)
	upstream := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)

	result := &ctdf.CrowdingResult{
		Selection: ctdf.LineSelection{LineID: "victoria", StationID: "940GZZLUBXN", Direction: ctdf.DirectionInbound},
		Carriages: []ctdf.CarriageOccupancy{
			{Label: "Car 1", Level: ctdf.OccupancyLevelLow, Percentage: percentage(10)},
			{Label: "Car 2", Level: ctdf.OccupancyLevelModerate, Percentage: percentage(25.6)},
			{Label: "Car 3", Level: ctdf.OccupancyLevelHigh, Percentage: percentage(55)},
			{Label: "Car 4", Level: ctdf.OccupancyLevelFull, Percentage: percentage(100)},
			{Label: "Car 5", Level: ctdf.OccupancyLevelUnknown, Padded: true},
		},
		Freshness:    ctdf.DataFreshnessLive,
		VehicleID:    "T204",
		UpstreamTime: &upstream,
	}

	feed := FeedMessage(result, now)

	assert.Equal(t, "2.0", feed.GetHeader().GetGtfsRealtimeVersion())
	assert.Equal(t, gtfs.FeedHeader_FULL_DATASET, feed.GetHeader().GetIncrementality())
	assert.Equal(t, uint64(now.Unix()), feed.GetHeader().GetTimestamp())
	require.Len(t, feed.GetEntity(), 1)

	vehicle := feed.GetEntity()[0].GetVehicle()
	require.NotNil(t, vehicle)
	assert.Equal(t, "victoria", vehicle.GetTrip().GetRouteId())
	assert.Equal(t, uint32(1), vehicle.GetTrip().GetDirectionId())
	assert.Equal(t, "940GZZLUBXN", vehicle.GetStopId())
	assert.Equal(t, "T204", vehicle.GetVehicle().GetId())
	assert.Equal(t, uint64(upstream.Unix()), vehicle.GetTimestamp())

	carriages := vehicle.GetMultiCarriageDetails()
	require.Len(t, carriages, len(result.Carriages))

	expected := []struct {
		status     gtfs.VehiclePosition_OccupancyStatus
		percentage int32
	}{
		{gtfs.VehiclePosition_MANY_SEATS_AVAILABLE, 10},
		{gtfs.VehiclePosition_FEW_SEATS_AVAILABLE, 26},
		{gtfs.VehiclePosition_STANDING_ROOM_ONLY, 55},
		{gtfs.VehiclePosition_CRUSHED_STANDING_ROOM_ONLY, 100},
		{gtfs.VehiclePosition_NO_DATA_AVAILABLE, -1},
	}
	for i, carriage := range carriages {
		assert.Equal(t, uint32(i+1), carriage.GetCarriageSequence())
		assert.Equal(t, result.Carriages[i].Label, carriage.GetLabel())
		assert.Equal(t, expected[i].status, carriage.GetOccupancyStatus())
		assert.Equal(t, expected[i].percentage, carriage.GetOccupancyPercentage())
	}
}

func TestFeedMessageOutboundWithoutVehicle(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 31, 0, 0, time.UTC)
	result := &ctdf.CrowdingResult{
		Selection: ctdf.LineSelection{LineID: "central", StationID: "940GZZLUBNK", Direction: ctdf.DirectionOutbound},
		Freshness: ctdf.DataFreshnessUnavailable,
	}

	vehicle := FeedMessage(result, now).GetEntity()[0].GetVehicle()

	assert.Equal(t, uint32(0), vehicle.GetTrip().GetDirectionId())
	assert.Nil(t, vehicle.GetVehicle())
	assert.Equal(t, uint64(now.Unix()), vehicle.GetTimestamp())
}

func TestMarshal(t *testing.T) {
	result := &ctdf.CrowdingResult{
		Selection: ctdf.LineSelection{LineID: "central", StationID: "940GZZLUBNK", Direction: ctdf.DirectionOutbound},
		Carriages: []ctdf.CarriageOccupancy{{Label: "Car 1", Level: ctdf.OccupancyLevelHigh, Percentage: percentage(60)}},
	}

	body, err := Marshal(FeedMessage(result, time.Unix(1752485400, 0)))
	require.NoError(t, err)

	var decoded gtfs.FeedMessage
	require.NoError(t, proto.Unmarshal(body, &decoded))
	require.Len(t, decoded.GetEntity(), 1)
	assert.Len(t, decoded.GetEntity()[0].GetVehicle().GetMultiCarriageDetails(), 1)
}
