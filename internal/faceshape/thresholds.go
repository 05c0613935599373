package faceshape

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed thresholds.yaml
var thresholdsYAML []byte

// Thresholds holds the tunable constants of the classification rules.
type Thresholds struct {
	Oblong struct {
		MinLengthToWidth float64 `yaml:"min_length_to_width"`
	} `yaml:"oblong"`
	Heart struct {
		MinForeheadToJaw float64 `yaml:"min_forehead_to_jaw"`
		MaxJawToCheek    float64 `yaml:"max_jaw_to_cheek"`
	} `yaml:"heart"`
	Diamond struct {
		MinCheekToJaw    float64 `yaml:"min_cheek_to_jaw"`
		MaxForeheadToJaw float64 `yaml:"max_forehead_to_jaw"`
	} `yaml:"diamond"`
	Square struct {
		MinJawToCheek    float64 `yaml:"min_jaw_to_cheek"`
		MaxLengthToWidth float64 `yaml:"max_length_to_width"`
	} `yaml:"square"`
	Round struct {
		MaxLengthToWidth float64 `yaml:"max_length_to_width"`
	} `yaml:"round"`
}

// DefaultThresholds returns the embedded thresholds.
func DefaultThresholds() Thresholds {
	var t Thresholds
	if err := yaml.Unmarshal(thresholdsYAML, &t); err != nil {
		// Embedded file, only broken by a bad edit.
		panic("failed to parse embedded thresholds.yaml: " + err.Error())
	}
	return t
}

// ParseThresholds reads thresholds from YAML. Keys missing from data keep
// their embedded default.
func ParseThresholds(data []byte) (Thresholds, error) {
	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("parsing thresholds: %w", err)
	}
	return t, nil
}

// LoadThresholds reads thresholds from a YAML file on disk.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("reading thresholds file: %w", err)
	}
	return ParseThresholds(data)
}
