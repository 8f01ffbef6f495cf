package topology

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/travigo/crowding/pkg/ctdf"
	"golang.org/x/exp/slices"
)

func (l *Line) Station(stationID string) (*Station, error) {
	index := slices.IndexFunc(l.Stations, func(s Station) bool {
		return s.ID == stationID
	})
	if index < 0 {
		return nil, fmt.Errorf("%w: %q is not on the %s line", ErrStationNotFound, stationID, l.Name)
	}

	return &l.Stations[index], nil
}

// Fuzzy matches need at least minMatchLength normalised characters and a similarity of minMatchScore
const (
	minMatchLength = 3
	minMatchScore  = 0.8
)

// MatchStation resolves user text to a station on this line. Exact NaPTAN ids and names win,
// otherwise the most similar short station name is used if it scores at least minMatchScore.
// Ties go to the station listed first.
func (l *Line) MatchStation(text string) (*Station, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty station name", ErrStationNotFound)
	}

	if station, err := l.Station(text); err == nil {
		return station, nil
	}

	for i, station := range l.Stations {
		if strings.EqualFold(station.Name, text) || strings.EqualFold(station.ShortName(), text) {
			return &l.Stations[i], nil
		}
	}

	query := normaliseStationName(text)
	if len([]rune(query)) < minMatchLength {
		return nil, fmt.Errorf("%w: %q is too short to match a station on the %s line", ErrStationNotFound, text, l.Name)
	}

	bestIndex, bestScore := -1, 0.0
	for i, station := range l.Stations {
		score := stationNameScore(query, normaliseStationName(station.ShortName()))
		if score > bestScore {
			bestIndex, bestScore = i, score
		}
	}

	if bestIndex < 0 || bestScore < minMatchScore {
		return nil, fmt.Errorf("%w: no station on the %s line matches %q", ErrStationNotFound, l.Name, text)
	}

	return &l.Stations[bestIndex], nil
}

// normaliseStationName lowercases, drops apostrophes and turns other punctuation into single spaces
// so "King's Cross St. Pancras" becomes "kings cross st pancras"
func normaliseStationName(name string) string {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), " underground station")

	var builder strings.Builder
	for _, r := range name {
		switch {
		case r == '\'' || r == '’':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
		default:
			builder.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// stationNameScore compares the query to the whole name and to the name cut to the query's
// length, so abbreviations like "South Ken" still score highly
func stationNameScore(query, name string) float64 {
	score := similarity(query, name)

	nameRunes := []rune(name)
	if queryLength := len([]rune(query)); len(nameRunes) > queryLength {
		score = max(score, similarity(query, string(nameRunes[:queryLength])))
	}

	return score
}

// similarity is the better of the Levenshtein and indel ratios, the indel ratio treats a
// swapped pair of letters ("Holbron") as a smaller edit
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}

	levenshtein := 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(max(len(ra), len(rb)))
	indel := 2 * float64(longestCommonSubsequence(ra, rb)) / float64(len(ra)+len(rb))

	return max(levenshtein, indel)
}

func longestCommonSubsequence(a, b []rune) int {
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)

	for _, ra := range a {
		for j, rb := range b {
			if ra == rb {
				current[j+1] = previous[j] + 1
			} else {
				current[j+1] = max(previous[j+1], current[j])
			}
		}
		previous, current = current, previous
	}

	return previous[len(b)]
}

// ResolveDirection accepts inbound/outbound or the compass code the line uses for them (eg. WB)
func (l *Line) ResolveDirection(text string) (ctdf.Direction, error) {
	if direction, err := ctdf.ParseDirection(text); err == nil {
		return direction, nil
	}

	text = strings.TrimSpace(text)
	switch {
	case l.Directions.Inbound != "" && strings.EqualFold(l.Directions.Inbound, text):
		return ctdf.DirectionInbound, nil
	case l.Directions.Outbound != "" && strings.EqualFold(l.Directions.Outbound, text):
		return ctdf.DirectionOutbound, nil
	}

	return "", fmt.Errorf("unsupported direction %q for the %s line", text, l.Name)
}

// CompassCode returns the line's short code for a direction, falling back to the direction name
func (l *Line) CompassCode(direction ctdf.Direction) string {
	code := l.Directions.Outbound
	if direction == ctdf.DirectionInbound {
		code = l.Directions.Inbound
	}

	if code == "" {
		return string(direction)
	}
	return code
}
