package cli

import (
	"path/filepath"
	"testing"

	"github.com/aidanlsb/socialscope/internal/config"
)

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(*config.Config) bool
		wantErr    bool
	}{
		{key: "data_dir", value: " ~/datasets ", check: func(c *config.Config) bool { return c.DataDir == "~/datasets" }},
		{key: "timezone", value: "Asia/Singapore", check: func(c *config.Config) bool { return c.Timezone == "Asia/Singapore" }},
		{key: "resolver.default_window_days", value: "14", check: func(c *config.Config) bool { return c.Resolver.DefaultWindowDays == 14 }},
		{key: "Log.Level", value: "debug", check: func(c *config.Config) bool { return c.Log.Level == "debug" }},
		{key: "ui.accent", value: "39", check: func(c *config.Config) bool { return c.UI.Accent == "39" }},
		{key: "resolver.timestamp_min_year", value: "soon", wantErr: true},
		{key: "resolver.default_window_days", value: "0", wantErr: true},
		{key: "vault", value: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			c := &config.Config{}
			err := setConfigValue(c, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(c) {
				t.Errorf("value not applied: %+v", c)
			}
		})
	}
}

func TestConfigInitAndSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socialscope", "config.toml")
	setVar(t, &configPath, path)
	setVar(t, &jsonOutput, true)

	resp := runJSON(t, func() error { return configInitCmd.RunE(configInitCmd, nil) })
	var initData struct {
		Created bool `json:"created"`
	}
	decodeData(t, resp, &initData)
	if !initData.Created {
		t.Fatal("expected config to be created")
	}

	resp = runJSON(t, func() error { return configInitCmd.RunE(configInitCmd, nil) })
	decodeData(t, resp, &initData)
	if initData.Created {
		t.Fatal("second init overwrote the config")
	}

	resp = runJSON(t, func() error {
		return configSetCmd.RunE(configSetCmd, []string{"timezone", "UTC"})
	})
	if !resp.OK {
		t.Fatalf("config set failed: %+v", resp.Error)
	}
	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", loaded.Timezone)
	}

	resp = runJSON(t, func() error {
		return configSetCmd.RunE(configSetCmd, []string{"timezone", "Mars/Olympus"})
	})
	if resp.OK || resp.Error.Code != ErrConfigInvalid {
		t.Fatalf("resp = %+v, want %s", resp.Error, ErrConfigInvalid)
	}
}
