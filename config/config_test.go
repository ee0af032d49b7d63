package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.DryRun)
	require.Equal(t, os.FileMode(0666), cfg.Device.Mode.FileMode())
	require.Equal(t, "info", cfg.Log.GetLevel())
	require.Equal(t, time.Second*5, cfg.Power.PollInterval.Duration())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("DRY_RUN", "")
	t.Setenv("KB_COLOR", "c255 0 0")

	path := writeConfig(t, `
init_conf: "m0 ${KB_COLOR} b${KB_BRIGHTNESS:-50}"
dry_run: false
replay_on_suspend: true
device:
  path: /tmp/kb.sock
  mode: "0660"
journal:
  path: /var/log/kb-journal.log
log:
  level: debug
power:
  poll_interval: 10s
  jump_threshold: 1m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "m0 c255 0 0 b50", cfg.InitConf)
	require.False(t, cfg.DryRun)
	require.True(t, cfg.ReplayOnSuspend)
	require.Equal(t, "/tmp/kb.sock", cfg.Device.Path)
	require.Equal(t, os.FileMode(0660), cfg.Device.Mode.FileMode())
	require.Equal(t, 4096, cfg.Device.MaxWrite)
	require.Equal(t, "/var/log/kb-journal.log", cfg.Journal.Path)
	require.Equal(t, 5, cfg.Journal.MaxSize)
	require.Equal(t, "debug", cfg.Log.GetLevel())
	require.Equal(t, time.Minute, cfg.Power.JumpThreshold.Duration())
}

func TestFileModeOctal(t *testing.T) {
	t.Setenv("DRY_RUN", "")

	cfg, err := Load(writeConfig(t, "device:\n  mode: \"0o640\"\n"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0640), cfg.Device.Mode.FileMode())

	cfg, err = Load(writeConfig(t, "device:\n  mode: \"600\"\n"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), cfg.Device.Mode.FileMode())
}

func TestLoadDryRunEnv(t *testing.T) {
	t.Setenv("DRY_RUN", "1")

	cfg, err := Load(writeConfig(t, "dry_run: false\n"))
	require.NoError(t, err)
	require.True(t, cfg.DryRun)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "device:\n  mode: \"0999\"\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "device:\n  mode: \"01777\"\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "device:\n  mode: \"\"\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "update_check:\n  enabled: true\n  repo: \"\"\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "power:\n  poll_interval: 10s\n  jump_threshold: 5s\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
