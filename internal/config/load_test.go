package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrariu/btrsnap/internal/policy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
jobs:
  - name: data-daily
    schedule: "0 0 * * *"
    volume: /data
    label: daily
    keep: 7
    readOnly: true
    minAgeSeconds: 3600
  - name: data-hourly
    schedule: "0 * * * *"
    volume: /data
    label: hourly
    keep: 24
    stalenessMethod: generation
    minAgeSeconds: 600
logging:
  quiet: true
reload:
  watch: true
  debounce: 750ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Jobs, 2)
	assert.True(t, cfg.Logging.Quiet)
	assert.True(t, cfg.Reload.Watch)
	assert.Equal(t, Duration(750*time.Millisecond), cfg.Reload.Debounce)

	pol, err := cfg.Jobs[0].Policy(cfg.Logging.Quiet)
	require.NoError(t, err)
	assert.Equal(t, "/data", pol.Volume)
	assert.Equal(t, 7, pol.Keep)
	assert.True(t, pol.ReadOnly)
	assert.True(t, pol.Quiet)
	assert.Equal(t, policy.ModTime, pol.Method)

	pol, err = cfg.Jobs[1].Policy(cfg.Logging.Quiet)
	require.NoError(t, err)
	assert.Equal(t, policy.Generation, pol.Method)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("BTRSNAP_TEST_VOLUME", "/srv/data")

	path := writeConfig(t, `
jobs:
  - name: data
    schedule: "@hourly"
    volume: $(BTRSNAP_TEST_VOLUME)
    label: hourly
    keep: 24
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.Jobs[0].Volume)
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no jobs",
			content: `jobs: []`,
			wantErr: "no jobs",
		},
		{
			name: "missing job name",
			content: `
jobs:
  - schedule: "@daily"
    volume: /data
    label: daily
    keep: 7
`,
			wantErr: "has no name",
		},
		{
			name: "duplicate job names",
			content: `
jobs:
  - name: data
    schedule: "@daily"
    volume: /data
    label: daily
    keep: 7
  - name: data
    schedule: "@hourly"
    volume: /data
    label: hourly
    keep: 24
`,
			wantErr: "duplicate job name",
		},
		{
			name: "bad cron spec",
			content: `
jobs:
  - name: data
    schedule: "whenever"
    volume: /data
    label: daily
    keep: 7
`,
			wantErr: "bad schedule",
		},
		{
			name: "unknown staleness method",
			content: `
jobs:
  - name: data
    schedule: "@daily"
    volume: /data
    label: daily
    keep: 7
    stalenessMethod: ctime
`,
			wantErr: "unknown staleness method",
		},
		{
			name: "invalid job policy",
			content: `
jobs:
  - name: data
    schedule: "@daily"
    volume: /data
    label: daily
    keep: -1
`,
			wantErr: "retention count",
		},
		{
			name: "conflicting placement",
			content: `
jobs:
  - name: data
    schedule: "@daily"
    volume: /data
    label: daily
    keep: 7
    mirror: /backups
    flatBase: /other
`,
			wantErr: "mutually exclusive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
