package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/crowding/pkg/config"
	"github.com/travigo/crowding/pkg/crowding"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the crowding web API and pages",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					service, err := crowding.NewServiceFromConfig(c.Context, cfg)
					if err != nil {
						return err
					}

					log.Info().Str("listen", c.String("listen")).Msg("Starting web api")

					return SetupServer(c.String("listen"), service)
				},
			},
		},
	}
}
