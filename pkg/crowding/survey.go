package crowding

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/crowding/pkg/ctdf"
	"github.com/travigo/crowding/pkg/topology"
	"golang.org/x/exp/slices"
)

const DefaultSurveyConcurrency = 4

type SurveyRow struct {
	Index   int
	Station topology.Station
	Result  *ctdf.CrowdingResult
	Err     error
}

// Survey looks up every station on a line in one direction. Each lookup is independent and a
// failure only affects its own row. Rows come back in the line's station order.
func (s *Service) Survey(ctx context.Context, lineID string, direction ctdf.Direction, concurrency int) ([]SurveyRow, error) {
	line, err := s.catalog.Lookup(lineID)
	if err != nil {
		return nil, &ServiceError{Kind: ErrorKindUnknownLine, Selection: ctdf.LineSelection{LineID: lineID, Direction: direction}, Err: err}
	}

	if concurrency <= 0 {
		concurrency = DefaultSurveyConcurrency
	}

	p := pool.NewWithResults[SurveyRow]().WithMaxGoroutines(concurrency)

	for i, station := range line.Stations {
		p.Go(func() SurveyRow {
			result, err := s.GetCrowding(ctx, ctdf.LineSelection{
				LineID:    line.ID,
				StationID: station.ID,
				Direction: direction,
			})

			return SurveyRow{Index: i, Station: station, Result: result, Err: err}
		})
	}

	rows := p.Wait()
	slices.SortFunc(rows, func(a, b SurveyRow) int {
		return a.Index - b.Index
	})

	return rows, nil
}
