package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/ukydev/fleet-simulator/internal/models"
)

// readDocument decodes a JSON or YAML file into out. The format follows the
// file extension.
func readDocument(path string, out interface{}) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("error decoding %s: %w", path, err)
	}
	return nil
}

// LoadLibrary reads the segment/trip catalog document.
func LoadLibrary(path string) (*models.Library, error) {
	var lib models.Library
	if err := readDocument(path, &lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// LoadFleet reads the fleet-assignment document.
func LoadFleet(path string) (*models.Fleet, error) {
	var fleet models.Fleet
	if err := readDocument(path, &fleet); err != nil {
		return nil, err
	}
	return &fleet, nil
}
