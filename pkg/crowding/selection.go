package crowding

import (
	"errors"
	"strings"

	"github.com/travigo/crowding/pkg/ctdf"
)

// ResolveSelection turns user input into a LineSelection. The station may be a NaPTAN id or a
// name, the direction may be inbound/outbound or the line's compass code and defaults to outbound.
func (s *Service) ResolveSelection(lineID string, stationText string, directionText string) (ctdf.LineSelection, error) {
	selection := ctdf.LineSelection{
		LineID:    strings.TrimSpace(lineID),
		StationID: strings.TrimSpace(stationText),
		Direction: ctdf.Direction(strings.TrimSpace(directionText)),
	}

	if selection.LineID == "" {
		return selection, &ServiceError{Kind: ErrorKindInvalidRequest, Selection: selection, Err: errors.New("line is required")}
	}
	if selection.StationID == "" {
		return selection, &ServiceError{Kind: ErrorKindInvalidRequest, Selection: selection, Err: errors.New("station is required")}
	}

	line, err := s.catalog.Lookup(selection.LineID)
	if err != nil {
		return selection, &ServiceError{Kind: ErrorKindUnknownLine, Selection: selection, Err: err}
	}

	station, err := line.MatchStation(selection.StationID)
	if err != nil {
		return selection, &ServiceError{Kind: ErrorKindUnknownStation, Selection: selection, Err: err}
	}
	selection.StationID = station.ID

	if selection.Direction == "" {
		selection.Direction = ctdf.DirectionOutbound
	} else {
		direction, err := line.ResolveDirection(string(selection.Direction))
		if err != nil {
			return selection, &ServiceError{Kind: ErrorKindInvalidDirection, Selection: selection, Err: err}
		}
		selection.Direction = direction
	}

	return selection, nil
}
