package config

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.MediaDir = "./tmp/media-test"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}
