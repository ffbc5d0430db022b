// Package config handles bwmtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds model data locations.
type DataConfig struct {
	SearchPaths []string `yaml:"search_paths"` // Directories searched for .bwm files
}

// ExportConfig holds OBJ export settings.
type ExportConfig struct {
	OutputDir   string  `yaml:"output_dir"`
	Scale       float32 `yaml:"scale"`        // Uniform scale applied to positions
	FlipV       bool    `yaml:"flip_v"`       // Flip the V texture coordinate
	FlipWinding bool    `yaml:"flip_winding"` // Reverse triangle winding order
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			SearchPaths: []string{"."},
		},
		Export: ExportConfig{
			OutputDir:   ".",
			Scale:       1.0,
			FlipV:       true,
			FlipWinding: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
