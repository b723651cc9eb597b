package config

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Classifier.K == 0 {
		cfg.Classifier.K = 15
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = SourceIris
	}
	if cfg.Dataset.Name == "" && cfg.Dataset.Source == SourceIris {
		cfg.Dataset.Name = "iris"
	}
	if cfg.Dataset.LabelColumn == "" {
		cfg.Dataset.LabelColumn = "species"
	}
	// The built-in iris run classifies on the two sepal measurements.
	if cfg.Dataset.Features == nil && cfg.Dataset.Source == SourceIris {
		cfg.Dataset.Features = []string{"sepal_length", "sepal_width"}
	}
	if cfg.Split.Modulus == 0 {
		cfg.Split.Modulus = 3
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = FormatText
	}
}
