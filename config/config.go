// LAKE - Lightweight Authenticated Key Exchange
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of LAKE.
//
// LAKE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LAKE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with LAKE. If not, see <https://www.gnu.org/licenses/>.

// Package config loads the demo handshake configuration: hex-encoded
// key material, EUIs and key identifiers for both parties.
package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Party holds one side's key material, hex encoded.
type Party struct {
	EphemeralKey string `yaml:"ephemeralKey"`
	StaticKey    string `yaml:"staticKey"`
	KID          string `yaml:"kid"`
}

// Config is the demo handshake configuration.
type Config struct {
	DevEUI    string `yaml:"devEui"`
	AppEUI    string `yaml:"appEui"`
	Initiator Party  `yaml:"initiator"`
	Responder Party  `yaml:"responder"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks hex encoding and field lengths.
func (c *Config) Validate() error {
	if _, err := decodeHex("devEui", c.DevEUI, 8); err != nil {
		return err
	}
	if c.AppEUI != "" {
		if _, err := decodeHex("appEui", c.AppEUI, 8); err != nil {
			return err
		}
	}
	for name, p := range map[string]Party{"initiator": c.Initiator, "responder": c.Responder} {
		if _, err := decodeHex(name+".ephemeralKey", p.EphemeralKey, 32); err != nil {
			return err
		}
		if _, err := decodeHex(name+".staticKey", p.StaticKey, 32); err != nil {
			return err
		}
		if _, err := decodeHex(name+".kid", p.KID, 0); err != nil {
			return err
		}
	}
	return nil
}

// DevEUIBytes returns the decoded DevEUI.
func (c *Config) DevEUIBytes() []byte { return mustHex(c.DevEUI) }

// AppEUIBytes returns the decoded AppEUI, nil when unset.
func (c *Config) AppEUIBytes() []byte {
	if c.AppEUI == "" {
		return nil
	}
	return mustHex(c.AppEUI)
}

// Bytes returns the decoded ephemeral key, static key and KID.
func (p Party) Bytes() (eph, static, kid []byte) {
	return mustHex(p.EphemeralKey), mustHex(p.StaticKey), mustHex(p.KID)
}

func decodeHex(name, value string, wantLen int) ([]byte, error) {
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("config: %s is not valid hex: %w", name, err)
	}
	if wantLen > 0 && len(b) != wantLen {
		return nil, fmt.Errorf("config: %s must be %d bytes, got %d", name, wantLen, len(b))
	}
	if wantLen == 0 && len(b) == 0 {
		return nil, fmt.Errorf("config: %s is empty", name)
	}
	return b, nil
}

// mustHex decodes a value already checked by Validate.
func mustHex(value string) []byte {
	b, err := hex.DecodeString(value)
	if err != nil {
		panic(err)
	}
	return b
}
