/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads process configuration from an optional YAML
// file and the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Comcast/vizcrew/core"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	// EnvConfig names the YAML config file.
	EnvConfig = "VIZCREW_CONFIG"

	// EnvAddr overrides Conf.Addr.
	EnvAddr = "VIZCREW_ADDR"

	// EnvMapbox is the optional map tiles API key.
	EnvMapbox = "MAPBOX_API_KEY"

	// EnvLogLevel overrides Conf.LogLevel.
	EnvLogLevel = "VIZCREW_LOG_LEVEL"
)

// MQTTConf configures the optional MQTT state mirror.
type MQTTConf struct {
	Broker    string        `yaml:"broker"`
	ClientID  string        `yaml:"client_id"`
	Prefix    string        `yaml:"prefix"`
	QoS       byte          `yaml:"qos"`
	KeepAlive time.Duration `yaml:"keep_alive"`
}

// Conf is the process configuration.
type Conf struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// MaxSessions caps concurrent connections.  Zero means no
	// limit.
	MaxSessions int `yaml:"max_sessions"`

	// SessionTTL evicts idle sessions.
	SessionTTL time.Duration `yaml:"session_ttl"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// Verbose turns on session message tracing.
	Verbose bool `yaml:"verbose"`

	// DataDir is where apps look for local files.
	DataDir string `yaml:"data_dir"`

	// CacheFile, if not empty, is a bbolt file that caches remote
	// datasets.
	CacheFile string `yaml:"cache_file"`

	// Strict makes every session's store reject unknown keys.
	Strict bool `yaml:"strict"`

	MapboxAPIKey string `yaml:"mapbox_api_key"`

	MQTT *MQTTConf `yaml:"mqtt,omitempty"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Conf {
	return &Conf{
		Addr:       "localhost:8080",
		SessionTTL: 30 * time.Minute,
		LogLevel:   "info",
		DataDir:    ".",
	}
}

// Parse reads YAML over the defaults.
func Parse(bs []byte) (*Conf, error) {
	c := Default()
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the file named by VIZCREW_CONFIG (if set) and then
// applies environment overrides.
func Load(fs afero.Fs) (*Conf, error) {
	return LoadEnv(fs, os.Getenv)
}

// LoadEnv is Load with the given environment.
func LoadEnv(fs afero.Fs, getenv func(string) string) (*Conf, error) {
	c := Default()
	if filename := getenv(EnvConfig); filename != "" {
		bs, err := afero.ReadFile(fs, filename)
		if err != nil {
			return nil, err
		}
		if c, err = Parse(bs); err != nil {
			return nil, err
		}
	}
	c.FromEnv(getenv)
	return c, nil
}

// FromEnv applies environment overrides.
func (c *Conf) FromEnv(getenv func(string) string) {
	if s := getenv(EnvAddr); s != "" {
		c.Addr = s
	}
	if s := getenv(EnvMapbox); s != "" {
		c.MapboxAPIKey = s
	}
	if s := getenv(EnvLogLevel); s != "" {
		c.LogLevel = s
	}
	if s := getenv("VIZCREW_MAX_SESSIONS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			c.MaxSessions = n
		}
	}
}

// Logger makes the root logger.
func (c *Conf) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogJSON,
		Output:     os.Stderr,
	})
}

// StoreConf returns the state store configuration for sessions.
func (c *Conf) StoreConf() *core.StoreConf {
	conf := &core.StoreConf{}
	if c.Strict {
		conf.Unknown = core.RejectUnknown
	}
	return conf
}
