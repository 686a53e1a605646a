// Package config loads mavftpctl's connection and client settings from an
// INI file, the format the teacher package uses for its own EDS/CiA-301
// configuration files.
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Connection holds the MAVLink addressing and transport endpoint used to
// reach the target system.
type Connection struct {
	Endpoint           string
	OwnSystem          uint8
	OwnComponent       uint8
	TargetSystem       uint8
	AutopilotComponent uint8
}

// Client holds the engine's own tunables.
type Client struct {
	Timeout time.Duration
	Debug   bool
}

// Config is the parsed contents of a mavftpctl configuration file.
type Config struct {
	Connection Connection
	Client     Client
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Connection: Connection{
			Endpoint:           "udp://:14540",
			OwnSystem:          255,
			OwnComponent:       190,
			TargetSystem:       1,
			AutopilotComponent: 1,
		},
		Client: Client{
			Timeout: 500 * time.Millisecond,
		},
	}
}

// Load parses path (an INI file) into a Config seeded from Default, so a
// file that only overrides a few keys still gets sane values for the rest.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	conn := f.Section("connection")
	cfg.Connection.Endpoint = conn.Key("endpoint").MustString(cfg.Connection.Endpoint)
	cfg.Connection.OwnSystem = uint8(conn.Key("own_system").MustUint(uint(cfg.Connection.OwnSystem)))
	cfg.Connection.OwnComponent = uint8(conn.Key("own_component").MustUint(uint(cfg.Connection.OwnComponent)))
	cfg.Connection.TargetSystem = uint8(conn.Key("target_system").MustUint(uint(cfg.Connection.TargetSystem)))
	cfg.Connection.AutopilotComponent = uint8(conn.Key("autopilot_component").MustUint(uint(cfg.Connection.AutopilotComponent)))

	client := f.Section("client")
	timeoutMs := client.Key("timeout_ms").MustInt(int(cfg.Client.Timeout / time.Millisecond))
	cfg.Client.Timeout = time.Duration(timeoutMs) * time.Millisecond
	cfg.Client.Debug = client.Key("debug").MustBool(cfg.Client.Debug)

	return cfg, nil
}
