// Package scenarios replays scripted drives through the prediction engine and
// checks the advice it produces.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/serikch/evpredict/core/model"
)

// SampleDef is one telemetry sample of a scripted drive.
type SampleDef struct {
	SpeedKmh    float64  `yaml:"speed_kmh"`
	Latitude    float64  `yaml:"latitude"`
	Longitude   float64  `yaml:"longitude"`
	Elevation   *float64 `yaml:"elevation,omitempty"`
	Timestamp   float64  `yaml:"timestamp"`
	SoC         float64  `yaml:"soc"`
	AmbientTemp float64  `yaml:"ambient_temp"`
}

func (s SampleDef) ToModel() model.SensorSample {
	temp := s.AmbientTemp
	if temp == 0 {
		temp = 15
	}
	return model.SensorSample{
		SpeedKmh:    s.SpeedKmh,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Elevation:   s.Elevation,
		Timestamp:   s.Timestamp,
		SoC:         s.SoC,
		AmbientTemp: temp,
	}
}

// Expect holds the assertions for one step. Zero-valued fields are skipped.
type Expect struct {
	Severity   string   `yaml:"severity,omitempty"`
	ModelUsed  string   `yaml:"model_used,omitempty"`
	MinPowerKW *float64 `yaml:"min_power_kw,omitempty"`
	MaxPowerKW *float64 `yaml:"max_power_kw,omitempty"`
}

// Step pairs a telemetry sample with its expected advice.
type Step struct {
	Sample SampleDef `yaml:"sample"`
	Expect Expect    `yaml:"expect"`
}

// Scenario is a named scripted drive.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	VehicleType string `yaml:"vehicle_type,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// LoadScenario reads a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &sc, nil
}

// LoadDir reads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	var out []*Scenario
	for _, f := range files {
		sc, err := LoadScenario(f)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
