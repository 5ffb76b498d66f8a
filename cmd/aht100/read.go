package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/aht100/cmd/aht100/console"
	"github.com/mklimuk/aht100/snsctx"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"temp"},
	Usage:   "initialize the sensor and take a single measurement",
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		cfg, err := configFrom(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		s, cleanup, err := openSensor(ctx, cfg)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		temp, hum, err := s.GetTempAndHum(ctx)
		if err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		console.Printf("%s  %s\n%s %s\n", console.PictoThermometer, console.White(console.Celsius(temp)), console.PictoHumidity, console.White(console.Percent(hum)))
		return nil
	},
}
