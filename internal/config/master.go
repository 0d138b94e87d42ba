package config

import "os"

type AppConfig struct {
	DebugMode        bool
	CredentialConfig *CredentialConfig
	AutomationConfig *AutomationConfig
	RedisConfig      *RedisConfig
	PostgresConfig   *PostgresConfig
	SweepConfig      *SweepConfig
}

func NewSystemConfig() *AppConfig {
	credentials := NewCredentialConfig()
	return &AppConfig{
		DebugMode:        os.Getenv("DEBUG_MODE") == "true",
		CredentialConfig: credentials,
		AutomationConfig: NewAutomationConfig(credentials),
		RedisConfig:      NewRedisConfig(),
		PostgresConfig:   NewPostgresConfig(),
		SweepConfig:      NewSweepConfig(),
	}
}
