package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default_matchesSpecDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal("127.0.0.1:5556", cfg.Transport.Address)
	assert.Equal(10000, cfg.Brain.MaxStreamChars)
	assert.Equal(2000, cfg.Brain.MaxLogEntries)
	assert.Equal(100, cfg.Brain.ConsecutiveLossLimit)
	assert.Equal(10, cfg.Brain.ConsecutiveWinLimit)
}

func Test_Load_overridesOnlyGivenFields(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "parrot.toml")
	contents := `
[transport]
address = "127.0.0.1:9999"

[brain]
consecutive_loss_limit = 5
`
	require.NoError(os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(err)
	assert.Equal("127.0.0.1:9999", cfg.Transport.Address)
	assert.Equal(5, cfg.Brain.ConsecutiveLossLimit)
	assert.Equal(2000, cfg.Brain.MaxLogEntries, "unspecified fields keep their default")
}

func Test_Load_rejectsMissingFile(t *testing.T) {
	require := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(err)
}

func Test_Validate_rejectsEmptyAddress(t *testing.T) {
	require := require.New(t)

	cfg := Default()
	cfg.Transport.Address = ""
	require.Error(cfg.Validate())
}

func Test_Validate_rejectsNonPositiveBrainLimits(t *testing.T) {
	require := require.New(t)

	cfg := Default()
	cfg.Brain.MaxStreamChars = 0
	require.Error(cfg.Validate())

	cfg = Default()
	cfg.Brain.MaxLogEntries = -1
	require.Error(cfg.Validate())
}
