package config

type AppConfig struct {
	DebugMode      bool
	HttpConfig     *HttpConfig
	JudgeConfig    *JudgeConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      getBoolEnv("DEBUG_MODE", false),
		HttpConfig:     NewHttpConfig(),
		JudgeConfig:    NewJudgeConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}
