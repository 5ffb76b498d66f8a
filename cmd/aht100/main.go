package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/aht100/config"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run())
}

const (
	configKey    = "config"
	configErrKey = "configErr"
)

func run() int {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Printf("error: %v", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "aht100"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "AHT100 temperature and humidity sensor cli"
	app.Metadata = map[string]interface{}{}
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to YAML config file",
			EnvVars: []string{"AHT100_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "I2C adapter: mcp2221, periph or nanopi",
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "periph I2C bus name",
		},
		&cli.IntFlag{
			Name:  "bus",
			Usage: "gobot I2C bus number",
		},
		&cli.IntFlag{
			Name:  "address",
			Usage: "sensor 7-bit address",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		// offline commands must work with a broken config; hardware
		// commands report the error through configFrom
		cfg, err := loadConfig(ctx)
		ctx.App.Metadata[configKey] = cfg
		ctx.App.Metadata[configErrKey] = err
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		level, perr := chlog.ParseLevel(cfg.LogLevel)
		if err != nil || perr != nil {
			level = chlog.InfoLevel
		}
		charm.SetLevel(level)
		if ctx.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	app.Commands = cli.Commands{
		&readCmd,
		&watchCmd,
		&statusCmd,
		&resetCmd,
		&decodeCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	return app
}

// loadConfig reads the config file and applies flags set on the command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		cfg.Address = c.Int("address")
	}
	return cfg, cfg.Validate()
}

// configFrom returns the configuration loaded before the command ran, with
// command flags applied.
func configFrom(c *cli.Context) (config.Config, error) {
	cfg, _ := c.App.Metadata[configKey].(config.Config)
	if err, _ := c.App.Metadata[configErrKey].(error); err != nil {
		return cfg, err
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
		return cfg, cfg.Validate()
	}
	return cfg, nil
}
