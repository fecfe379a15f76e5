package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

const ENV_DIR = "config/envs/"

// LoadEnv loads config/envs/.env.<env>. Variables already set in the
// environment win.
func LoadEnv(env string) {
	envFile := ENV_DIR + ".env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
