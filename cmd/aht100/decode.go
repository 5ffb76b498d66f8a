package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/aht100/cmd/aht100/console"
	"github.com/mklimuk/aht100/environment"
)

type decoded struct {
	Status  *environment.AHT100Status `yaml:"status,omitempty"`
	Reading environment.Reading       `yaml:"reading"`
}

var decodeCmd = cli.Command{
	Name:      "decode",
	Usage:     "decode a captured payload (5 bytes) or response (6 bytes, status first)",
	ArgsUsage: "<hex>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected a single hex argument")
		}
		res, err := decodeHex(c.Args().First())
		if err != nil {
			return console.Exit(1, "decode error: %s", console.Red(err))
		}
		if err := yaml.NewEncoder(os.Stdout).Encode(res); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

func decodeHex(s string) (decoded, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, " ", ""), "0x")
	buf, err := hex.DecodeString(s)
	if err != nil {
		return decoded{}, fmt.Errorf("invalid hex: %w", err)
	}
	var res decoded
	switch len(buf) {
	case 5:
	case 6:
		status := environment.DecodeStatus(buf[0])
		res.Status = &status
		if status.Busy {
			return res, environment.ErrDeviceBusy
		}
		if !status.Calibrated {
			return res, environment.ErrNotCalibrated
		}
		buf = buf[1:]
	default:
		return decoded{}, fmt.Errorf("expected 5 or 6 bytes, got %d", len(buf))
	}
	res.Reading = environment.DecodeReading([5]byte(buf))
	return res, nil
}
