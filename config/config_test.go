package config

import (
	"testing"
	"time"

	"github.com/Comcast/vizcrew/core"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestLoadEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/etc/vizcrew.yaml", []byte(`
addr: ":9000"
max_sessions: 4
session_ttl: 90s
strict: true
mqtt:
  broker: tcp://localhost:1883
  prefix: viz
`), 0644)

	env := map[string]string{
		EnvConfig: "/etc/vizcrew.yaml",
		EnvMapbox: "pk.test",
	}
	c, err := LoadEnv(fs, func(k string) string { return env[k] })
	if err != nil {
		t.Fatal(err)
	}

	want := &Conf{
		Addr:         ":9000",
		MaxSessions:  4,
		SessionTTL:   90 * time.Second,
		LogLevel:     "info",
		DataDir:      ".",
		Strict:       true,
		MapboxAPIKey: "pk.test",
		MQTT: &MQTTConf{
			Broker: "tcp://localhost:1883",
			Prefix: "viz",
		},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatal(diff)
	}
	if c.StoreConf().Unknown != core.RejectUnknown {
		t.Fatal("strict wasn't")
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := LoadEnv(afero.NewMemMapFs(), func(string) string { return "" })
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Fatal(diff)
	}
	if c.MapboxAPIKey != "" {
		t.Fatal(c.MapboxAPIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	env := map[string]string{EnvConfig: "/nope.yaml"}
	if _, err := LoadEnv(afero.NewMemMapFs(), func(k string) string { return env[k] }); err == nil {
		t.Fatal("expected an error")
	}
}
