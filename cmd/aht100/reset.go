package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/aht100/cmd/aht100/console"
	"github.com/mklimuk/aht100/snsctx"
)

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "soft reset the sensor controller",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		if !c.Bool("yes") {
			answer, err := console.Prompt("reset the sensor?", console.No, console.Yes)
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Info("reset cancelled")
				return nil
			}
		}
		cfg, err := configFrom(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		s, cleanup, err := openSensor(ctx, cfg)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		if err := s.Reset(ctx); err != nil {
			return console.Exit(1, "reset error: %s", console.Red(err))
		}
		console.PInfof(console.PictoFinish, "reset sent; wait for the sensor to restart before the next command")
		return nil
	},
}
