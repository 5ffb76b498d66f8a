package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/aht100"
	"github.com/mklimuk/aht100/cmd/aht100/console"
	"github.com/mklimuk/aht100/snsctx"
)

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "initialize the sensor and print the reported status",
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
		status, err := s.Init(ctx, aht100.SysDelay{})
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		if err := enc.Encode(status); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		if !status.Calibrated {
			console.Warn("sensor is not calibrated yet; run init again")
		}
		return nil
	},
}
