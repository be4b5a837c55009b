package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expect    Config
		expectErr bool
	}{
		{
			name:    "empty file gives defaults",
			content: "",
			expect:  Default(),
		},
		{
			name:    "partial settings",
			content: "[produce]\nlimit = 5\n\n[cache]\npath = \"gq.cache\"\n",
			expect: func() Config {
				cfg := Default()
				cfg.Produce.Limit = 5
				cfg.Cache.Path = "gq.cache"
				return cfg
			}(),
		},
		{
			name:    "server settings",
			content: "[server]\nlisten = \":9000\"\ndb = \"sqlite:data\"\nunauth_delay_ms = -1\nsecret = \"abc\"\n",
			expect: func() Config {
				cfg := Default()
				cfg.Server = Server{Listen: ":9000", DB: "sqlite:data", UnauthDelayMS: -1, Secret: "abc"}
				return cfg
			}(),
		},
		{
			name:      "unknown key",
			content:   "[produce]\ncount = 5\n",
			expectErr: true,
		},
		{
			name:      "invalid limit",
			content:   "[compare]\nlimit = 0\n",
			expectErr: true,
		},
		{
			name:      "not toml",
			content:   "limit = = 3",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			path := filepath.Join(t.TempDir(), "gq.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			actual, err := Load(path)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Load_Missing(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(err)
}

func Test_Config_Write(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	cfg.Produce.Limit = 7
	cfg.Server.Secret = "shh"

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, cfg.Write(path))

	actual, err := Load(path)
	assert.NoError(err)
	assert.Equal(cfg, actual)
}

func Test_Config_Validate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Default().Validate())

	cfg := Default()
	cfg.Server.Listen = "localhost"
	assert.Error(cfg.Validate())

	cfg = Default()
	cfg.Produce.Limit = -3
	assert.Error(cfg.Validate())
}
