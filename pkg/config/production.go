package config

func loadProductionConfig(cfg *Config) {
	cfg.DatabaseFilePath = "/data/shelfmark.sqlite"
	cfg.MediaDir = "/data/media"
	cfg.ServerHost = "0.0.0.0"
}
