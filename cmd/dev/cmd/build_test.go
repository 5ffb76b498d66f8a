package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCmd_CgoEnabledByDefault(t *testing.T) {
	cmd := BuildCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	opts, err := goBuildOpts(cmd.Flags())
	require.NoError(t, err)
	assert.True(t, opts.EnableCgo)
	assert.Empty(t, opts.Tags)
}

func TestBuildCmd_CgoAndTagsFlags(t *testing.T) {
	cmd := BuildCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--cgo=false", "--tags", "netgo,osusergo", "--cross-os", "linux", "--cross-arch", "arm64"}))
	opts, err := goBuildOpts(cmd.Flags())
	require.NoError(t, err)
	assert.False(t, opts.EnableCgo)
	assert.Equal(t, []string{"netgo", "osusergo"}, opts.Tags)
	assert.Equal(t, "linux", opts.OS)
	assert.Equal(t, "arm64", opts.Arch)

	args, err := forwardedArgs(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"build",
		"--version", "latest",
		"--cross-os", "linux",
		"--cross-arch", "arm64",
		"--cgo=false",
		"--tags", "netgo,osusergo",
	}, args)
}
