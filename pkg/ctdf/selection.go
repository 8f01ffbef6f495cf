package ctdf

import (
	"fmt"
	"strings"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

func (d Direction) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// ParseDirection accepts the TfL direction names in any letter case
func ParseDirection(value string) (Direction, error) {
	direction := Direction(strings.ToLower(strings.TrimSpace(value)))
	if !direction.Valid() {
		return "", fmt.Errorf("unsupported direction %q", value)
	}

	return direction, nil
}

// LineSelection identifies a single crowding lookup
type LineSelection struct {
	LineID    string    `json:"line" groups:"basic"`
	StationID string    `json:"station" groups:"basic"`
	Direction Direction `json:"direction" groups:"basic"`
}

func (s LineSelection) String() string {
	return fmt.Sprintf("%s/%s/%s", s.LineID, s.StationID, s.Direction)
}
