package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// QualityCmds returns the test, lint and integration-test commands.
func QualityCmds() []*cobra.Command {
	tasks := []struct {
		use   string
		short string
		run   func() error
	}{
		{"test", "Run unit tests", test.Test},
		{"lint", "Run linting", test.Lint},
		// needs an AHT100 reachable through the configured adapter
		{"integration-test", "Run integration tests against hardware", test.Integ},
	}
	cmds := make([]*cobra.Command, 0, len(tasks))
	for _, task := range tasks {
		cmds = append(cmds, &cobra.Command{
			Use:   task.use,
			Short: task.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := task.run(); err != nil {
					return fmt.Errorf("%s failed: %w", task.use, err)
				}
				return nil
			},
		})
	}
	return cmds
}
