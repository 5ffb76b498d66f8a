package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gophertribe/devtool/build"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the aht100 cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			os := cmd.Flag("os").Value.String()
			arch := cmd.Flag("arch").Value.String()

			// if this is a native build, use go build
			if os == runtime.GOOS && arch == runtime.GOARCH {
				opts, err := goBuildOpts(cmd.Flags())
				if err != nil {
					return err
				}
				return build.GoBuild(fmt.Sprintf("dist/aht100-%s-%s", opts.OS, opts.Arch), "./cmd/aht100", opts)
			}

			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			dockerArgs, err := forwardedArgs(cmd.Flags())
			if err != nil {
				return err
			}
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", os, arch), dockerArgs, build.DockerBuildOpts{
				NoCache: noCache,
				Image:   "gophertribe/gobuild:1.25-bookworm",
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building the app")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	// the mcp2221 adapter needs cgo for karalabe/hid
	cmd.Flags().Bool("cgo", true, "build with cgo enabled")
	cmd.Flags().StringSlice("tags", nil, "additional go build tags")

	return cmd
}

func goBuildOpts(flags *pflag.FlagSet) (build.GoBuildOpts, error) {
	cgo, err := flags.GetBool("cgo")
	if err != nil {
		return build.GoBuildOpts{}, fmt.Errorf("could not get cgo flag: %w", err)
	}
	tags, err := flags.GetStringSlice("tags")
	if err != nil {
		return build.GoBuildOpts{}, fmt.Errorf("could not get tags flag: %w", err)
	}
	os, _ := flags.GetString("os")
	arch, _ := flags.GetString("arch")
	crossOs, _ := flags.GetString("cross-os")
	crossArch, _ := flags.GetString("cross-arch")
	if crossOs != "" && crossArch != "" {
		os = crossOs
		arch = crossArch
	}
	version, _ := flags.GetString("version")
	return build.GoBuildOpts{
		Version:       version,
		InjectVersion: true,
		ConfigPackage: "main",
		EnableCgo:     cgo,
		Tags:          tags,
		Arch:          arch,
		OS:            os,
	}, nil
}

// forwardedArgs are the build flags passed to the build running inside the container.
func forwardedArgs(flags *pflag.FlagSet) ([]string, error) {
	opts, err := goBuildOpts(flags)
	if err != nil {
		return nil, err
	}
	crossOs, _ := flags.GetString("cross-os")
	crossArch, _ := flags.GetString("cross-arch")
	args := []string{
		"build",
		"--version", opts.Version,
		"--cross-os", crossOs,
		"--cross-arch", crossArch,
		"--cgo=" + strconv.FormatBool(opts.EnableCgo),
	}
	if len(opts.Tags) > 0 {
		args = append(args, "--tags", strings.Join(opts.Tags, ","))
	}
	return args, nil
}
