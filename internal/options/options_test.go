package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	ArenaCapacity int
	Label         string
	FastPath      bool
	LastCall      string
}

func (tc *testConfig) setArenaCapacity(v int) error {
	if v < 0 {
		return errors.New("arena capacity cannot be negative")
	}
	tc.ArenaCapacity = v
	tc.LastCall = "setArenaCapacity"

	return nil
}

func (tc *testConfig) setLabel(label string) {
	tc.Label = label
	tc.LastCall = "setLabel"
}

func TestOption_New(t *testing.T) {
	t.Run("applies option that can fail", func(t *testing.T) {
		cfg := &testConfig{}
		opt := New(func(c *testConfig) error { return c.setArenaCapacity(4096) })

		require.NoError(t, opt.apply(cfg))
		require.Equal(t, 4096, cfg.ArenaCapacity)
		require.Equal(t, "setArenaCapacity", cfg.LastCall)
	})

	t.Run("propagates errors", func(t *testing.T) {
		cfg := &testConfig{}
		opt := New(func(c *testConfig) error { return c.setArenaCapacity(-1) })

		err := opt.apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestOption_NoError(t *testing.T) {
	cfg := &testConfig{}
	opt := NoError(func(c *testConfig) { c.setLabel("names") })

	require.NoError(t, opt.apply(cfg))
	require.Equal(t, "names", cfg.Label)
	require.Equal(t, "setLabel", cfg.LastCall)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option[*testConfig]
		wantErr bool
		wantCfg testConfig
	}{
		{
			name:    "no options",
			wantCfg: testConfig{},
		},
		{
			name: "options applied in order",
			opts: []Option[*testConfig]{
				New(func(c *testConfig) error { return c.setArenaCapacity(10) }),
				NoError(func(c *testConfig) { c.setLabel("a") }),
				NoError(func(c *testConfig) { c.FastPath = true }),
			},
			wantCfg: testConfig{ArenaCapacity: 10, Label: "a", FastPath: true, LastCall: "setLabel"},
		},
		{
			name: "later option overrides earlier",
			opts: []Option[*testConfig]{
				NoError(func(c *testConfig) { c.setLabel("first") }),
				NoError(func(c *testConfig) { c.setLabel("second") }),
			},
			wantCfg: testConfig{Label: "second", LastCall: "setLabel"},
		},
		{
			name: "nil option is skipped",
			opts: []Option[*testConfig]{
				nil,
				NoError(func(c *testConfig) { c.setLabel("b") }),
			},
			wantCfg: testConfig{Label: "b", LastCall: "setLabel"},
		},
		{
			name: "stops at first error",
			opts: []Option[*testConfig]{
				NoError(func(c *testConfig) { c.setLabel("kept") }),
				New(func(c *testConfig) error { return c.setArenaCapacity(-5) }),
				NoError(func(c *testConfig) { c.setLabel("skipped") }),
			},
			wantErr: true,
			wantCfg: testConfig{Label: "kept", LastCall: "setLabel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &testConfig{}
			err := Apply(cfg, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantCfg, *cfg)
		})
	}
}

func TestPrepend(t *testing.T) {
	opts := []Option[*testConfig]{NoError(func(c *testConfig) { c.setLabel("caller") })}
	base := NoError(func(c *testConfig) { c.setLabel("column") })

	all := Prepend(opts, base)
	require.Len(t, all, 2)
	require.Len(t, opts, 1)

	cfg := &testConfig{}
	require.NoError(t, Apply(cfg, all...))
	require.Equal(t, "caller", cfg.Label)
}
