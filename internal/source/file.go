package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/filipsPL/aprs-is-wx/internal/wx"
)

// Source hands the orchestrator the most recent weather observation.
type Source interface {
	Latest(ctx context.Context) (wx.Observation, error)
}

// FileSource reads a JSON observation file written by the measuring side.
// The file is re-read on every call so a long-running beacon picks up
// fresh readings.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Latest(_ context.Context) (wx.Observation, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return wx.Observation{}, fmt.Errorf("read observation file: %w", err)
	}

	var obs wx.Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return wx.Observation{}, fmt.Errorf("parse observation file %s: %w", s.Path, err)
	}

	if err := validateObservation(obs); err != nil {
		return wx.Observation{}, fmt.Errorf("observation file %s: %w", s.Path, err)
	}
	return obs, nil
}

func validateObservation(obs wx.Observation) error {
	if obs.Humidity != nil {
		if *obs.Humidity < 0 || *obs.Humidity > 100 {
			return fmt.Errorf("humidity out of range: %g (must be 0-100)", *obs.Humidity)
		}
	}
	if obs.WindDirection != nil {
		if *obs.WindDirection < 0 || *obs.WindDirection > 360 {
			return fmt.Errorf("wind direction out of range: %g (must be 0-360)", *obs.WindDirection)
		}
	}
	return nil
}
