package crowding

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/crowding/pkg/config"
	"github.com/travigo/crowding/pkg/ctdf"
	"github.com/travigo/crowding/pkg/topology"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "lookup",
			Usage: "Fetch the live carriage crowding for a single station",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "line",
					Usage:    "line id eg. piccadilly",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "station",
					Usage:    "NaPTAN id or station name",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "direction",
					Value: string(ctdf.DirectionOutbound),
					Usage: "inbound, outbound or the lines compass code",
				},
			},
			Action: func(c *cli.Context) error {
				service, err := serviceFromEnvironment(c)
				if err != nil {
					return err
				}

				selection, err := service.ResolveSelection(c.String("line"), c.String("station"), c.String("direction"))
				if err != nil {
					return err
				}

				result, err := service.GetCrowding(c.Context, selection)
				if err != nil {
					return err
				}

				pretty.Println(result)

				return nil
			},
		},
		{
			Name:  "survey",
			Usage: "Fetch the live carriage crowding for every station on a line",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "line",
					Usage:    "line id eg. piccadilly",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "direction",
					Value: string(ctdf.DirectionOutbound),
					Usage: "inbound, outbound or the lines compass code",
				},
				&cli.IntFlag{
					Name:  "concurrency",
					Value: DefaultSurveyConcurrency,
					Usage: "maximum number of parallel upstream lookups",
				},
			},
			Action: func(c *cli.Context) error {
				service, err := serviceFromEnvironment(c)
				if err != nil {
					return err
				}

				line, err := service.Catalog().Lookup(c.String("line"))
				if err != nil {
					return err
				}

				direction, err := line.ResolveDirection(c.String("direction"))
				if err != nil {
					return err
				}

				rows, err := service.Survey(c.Context, line.ID, direction, c.Int("concurrency"))
				if err != nil {
					return err
				}

				failures := 0
				for _, row := range rows {
					if row.Err != nil {
						failures++
						log.Error().Err(row.Err).Str("station", row.Station.ID).Msg("Crowding lookup failed")
						continue
					}

					fmt.Printf("%-32s %-11s %s\n", row.Station.ShortName(), row.Result.Freshness, summariseCarriages(row.Result.Carriages))
				}

				log.Info().
					Str("line", line.ID).
					Str("direction", line.CompassCode(direction)).
					Int("stations", len(rows)).
					Int("failures", failures).
					Msg("Survey complete")

				return nil
			},
		},
		{
			Name:  "lines",
			Usage: "List the lines and stations in the bundled catalogue",
			Action: func(c *cli.Context) error {
				catalog, err := topology.Default()
				if err != nil {
					return err
				}

				for _, line := range catalog.Lines() {
					fmt.Printf("%-14s %-20s %d cars, %d stations\n", line.ID, line.Name, line.CarriageCount, len(line.Stations))
				}

				return nil
			},
		},
	}
}

func serviceFromEnvironment(c *cli.Context) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return NewServiceFromConfig(c.Context, cfg)
}

func summariseCarriages(carriages []ctdf.CarriageOccupancy) string {
	levels := make([]string, len(carriages))
	for i, carriage := range carriages {
		levels[i] = string(carriage.Level)
	}

	return strings.Join(levels, " ")
}
