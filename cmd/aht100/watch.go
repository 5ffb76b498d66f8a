package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/aht100/cmd/aht100/console"
	"github.com/mklimuk/aht100/sampler"
	"github.com/mklimuk/aht100/snsctx"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "sample the sensor periodically until interrupted",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "sampling interval",
			Value:   time.Second,
		},
	},
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = snsctx.SetVerbose(ctx, c.Bool("verbose"))
		cfg, err := configFrom(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		s, cleanup, err := openSensor(ctx, cfg)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		smp := sampler.New(s, func(sample sampler.Sample) {
			console.Printf("%s %s  %s %s  %s %s\n",
				console.PictoCalendar, sample.Time.Format(time.TimeOnly),
				console.PictoThermometer, console.White(console.Celsius(sample.Reading.Temperature)),
				console.PictoHumidity, console.White(console.Percent(sample.Reading.Humidity)))
		}, sampler.WithInterval(cfg.Interval), sampler.WithMaxBusErrors(cfg.MaxBusErrors))
		if err := smp.Run(ctx); err != nil {
			return console.Exit(1, "sampling stopped: %s", console.Red(err))
		}
		return nil
	},
}
