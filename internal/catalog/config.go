package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lamesa/reserva/internal/model"
)

// Config is the serializable form of the restaurant's static configuration.
// It can be loaded from a YAML file or taken from Default().
type Config struct {
	Zones        []Zone            `yaml:"zones"`
	Tables       []model.Table     `yaml:"tables"`
	Labels       map[string]uint64 `yaml:"labels"`
	LegacyLabels []string          `yaml:"legacy_labels"`
	ZoneAliases  map[string]string `yaml:"zone_aliases"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("catalog: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("catalog: parse config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in restaurant layout: ten tables across four
// zones plus the wizard-label map.  PT1/PT2 are the labels of the retired
// patio zone and alias the same tables as B1/B2.
func Default() Config {
	return Config{
		Zones: []Zone{
			{ID: "terraza", Name: "Terraza", Description: "Ambiente al aire libre con vista panorámica"},
			{ID: "interior", Name: "Salón Interior", Description: "Ambiente climatizado y acogedor"},
			{ID: "barra", Name: "Barra", Description: "Espacio semi-abierto con ambiente natural"},
			{ID: "privado", Name: "Salón Privado", Description: "Espacio exclusivo para eventos especiales"},
		},
		Tables: []model.Table{
			{ID: 1, Number: 1, Capacity: 2, Zone: "interior"},
			{ID: 2, Number: 2, Capacity: 4, Zone: "interior"},
			{ID: 3, Number: 3, Capacity: 6, Zone: "barra"},
			{ID: 4, Number: 4, Capacity: 2, Zone: "barra"},
			{ID: 5, Number: 5, Capacity: 4, Zone: "terraza"},
			{ID: 6, Number: 6, Capacity: 6, Zone: "terraza"},
			{ID: 7, Number: 7, Capacity: 8, Zone: "interior"},
			{ID: 8, Number: 8, Capacity: 2, Zone: "interior"},
			{ID: 9, Number: 9, Capacity: 4, Zone: "privado"},
			{ID: 10, Number: 10, Capacity: 6, Zone: "privado"},
		},
		Labels: map[string]uint64{
			"T1": 5, "T2": 6,
			"I1": 1, "I2": 2, "I3": 7, "I4": 8,
			"P1": 9, "P2": 10,
			"B1": 3, "B2": 4,
			"PT1": 3, "PT2": 4,
		},
		LegacyLabels: []string{"PT1", "PT2"},
		ZoneAliases:  map[string]string{"patio": "barra"},
	}
}
