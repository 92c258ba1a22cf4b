package cmd

import (
	"os"
	"testing"

	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigInit(t *testing.T) {
	e := setup(t)

	out, _, err := e.execute("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, e.config)

	data, err := os.ReadFile(e.config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "remote: origin")

	_, _, err = e.execute("config", "init")
	assert.True(t, syncerrors.Is(err, syncerrors.ErrConfigExists))

	_, _, err = e.execute("config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	e := setup(t)
	require.NoError(t, os.WriteFile(e.config, []byte("branch: develop\ntimeout: 30\n"), 0o644))
	e.env["SYNCPUSH_REMOTE"] = "upstream"

	out, _, err := e.execute("config", "show", "--repo", e.repo)
	require.NoError(t, err)

	var shown shownConfig
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, shownConfig{
		SettingsFile: e.config,
		Repo:         e.repo,
		Remote:       "upstream",
		Branch:       "develop",
		OnFailure:    "continue",
		Timeout:      30,
	}, shown)
}
