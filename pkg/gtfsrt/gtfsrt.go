package gtfsrt

import (
	"fmt"
	"math"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/travigo/crowding/pkg/ctdf"
	"google.golang.org/protobuf/proto"
)

const gtfsRealtimeVersion = "2.0"

// FeedMessage converts a crowding result into a single entity GTFS-RT feed with per carriage occupancy
func FeedMessage(result *ctdf.CrowdingResult, now time.Time) *gtfs.FeedMessage {
	selection := result.Selection

	vehiclePosition := &gtfs.VehiclePosition{
		Trip: &gtfs.TripDescriptor{
			RouteId:     proto.String(selection.LineID),
			DirectionId: proto.Uint32(directionID(selection.Direction)),
		},
		StopId:    proto.String(selection.StationID),
		Timestamp: proto.Uint64(uint64(timestamp(result, now).Unix())),
	}

	if result.VehicleID != "" {
		vehiclePosition.Vehicle = &gtfs.VehicleDescriptor{
			Id: proto.String(result.VehicleID),
		}
	}

	for i, carriage := range result.Carriages {
		vehiclePosition.MultiCarriageDetails = append(vehiclePosition.MultiCarriageDetails, &gtfs.VehiclePosition_CarriageDetails{
			Id:                  proto.String(fmt.Sprintf("%s-%d", selection.LineID, i+1)),
			Label:               proto.String(carriage.Label),
			OccupancyStatus:     occupancyStatus(carriage.Level).Enum(),
			OccupancyPercentage: proto.Int32(occupancyPercentage(carriage)),
			CarriageSequence:    proto.Uint32(uint32(i + 1)),
		})
	}

	return &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
		Entity: []*gtfs.FeedEntity{
			{
				Id:      proto.String(selection.String()),
				Vehicle: vehiclePosition,
			},
		},
	}
}

func Marshal(feed *gtfs.FeedMessage) ([]byte, error) {
	return proto.Marshal(feed)
}

func directionID(direction ctdf.Direction) uint32 {
	if direction == ctdf.DirectionInbound {
		return 1
	}
	return 0
}

func timestamp(result *ctdf.CrowdingResult, now time.Time) time.Time {
	if result.UpstreamTime != nil {
		return *result.UpstreamTime
	}
	if !result.GeneratedAt.IsZero() {
		return result.GeneratedAt
	}
	return now
}

func occupancyStatus(level ctdf.OccupancyLevel) gtfs.VehiclePosition_OccupancyStatus {
	switch level {
	case ctdf.OccupancyLevelLow:
		return gtfs.VehiclePosition_MANY_SEATS_AVAILABLE
	case ctdf.OccupancyLevelModerate:
		return gtfs.VehiclePosition_FEW_SEATS_AVAILABLE
	case ctdf.OccupancyLevelHigh:
		return gtfs.VehiclePosition_STANDING_ROOM_ONLY
	case ctdf.OccupancyLevelFull:
		return gtfs.VehiclePosition_CRUSHED_STANDING_ROOM_ONLY
	default:
		return gtfs.VehiclePosition_NO_DATA_AVAILABLE
	}
}

// -1 is the GTFS-RT value for "no data"
func occupancyPercentage(carriage ctdf.CarriageOccupancy) int32 {
	if carriage.Percentage == nil {
		return -1
	}
	return int32(math.Round(*carriage.Percentage))
}
