package config

// DefaultCacheDir is where fetched resources land unless configured.
const DefaultCacheDir = ".foundry/cache"

// applyDefaults fills in optional fields after parsing.
func applyDefaults(cfg *Config) {
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	for name, task := range cfg.Tasks {
		if task.Mode == "" {
			task.Mode = ModeSequential
			cfg.Tasks[name] = task
		}
	}
}
