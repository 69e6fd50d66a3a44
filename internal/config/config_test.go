package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Settings
		wantErr string
	}{
		{
			name: "full settings",
			yaml: "default_timeout: 30s\npoll_interval: 250ms\nepsilon: 0.001\nbranch_limit: 4\n",
			want: Settings{
				DefaultTimeout: 30 * time.Second,
				PollInterval:   250 * time.Millisecond,
				Epsilon:        0.001,
				BranchLimit:    4,
			},
		},
		{
			name: "missing fields keep fallbacks",
			yaml: "epsilon: 0.5\n",
			want: Settings{
				DefaultTimeout: DefaultTimeout,
				PollInterval:   DefaultPollInterval,
				Epsilon:        0.5,
			},
		},
		{
			name:    "unknown field is rejected",
			yaml:    "default_timeout: 5s\ndefautl_timeout: 5s\n",
			wantErr: "parse settings",
		},
		{
			name:    "malformed duration",
			yaml:    "default_timeout: five seconds\n",
			wantErr: "default_timeout",
		},
		{
			name:    "poll interval exceeding timeout",
			yaml:    "default_timeout: 1ms\npoll_interval: 10s\n",
			wantErr: "exceeds default_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firmo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_timeout: 2s\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, s.DefaultTimeout)
	assert.Equal(t, DefaultPollInterval, s.PollInterval)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults are valid", func(*Settings) {}, false},
		{"zero timeout", func(s *Settings) { s.DefaultTimeout = 0 }, true},
		{"negative poll interval", func(s *Settings) { s.PollInterval = -time.Second }, true},
		{"negative epsilon", func(s *Settings) { s.Epsilon = -1 }, true},
		{"negative branch limit", func(s *Settings) { s.BranchLimit = -1 }, true},
		{"zero epsilon is allowed", func(s *Settings) { s.Epsilon = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
