package config

type HttpConfig struct {
	Port int
	// Rate limiting applies to run and submit requests
	RateLimitRPS          float64
	RateLimitPerClientRPS float64
	RateLimitBurst        int
	MaxConcurrentEvals    int
	// TrustProxyHeaders keys rate limits by X-Forwarded-For
	TrustProxyHeaders bool
}

func NewHttpConfig() *HttpConfig {
	return &HttpConfig{
		Port:                  getIntEnv("HTTP_PORT", 8082),
		RateLimitRPS:          getFloatEnv("RATE_LIMIT_RPS", 20),
		RateLimitPerClientRPS: getFloatEnv("RATE_LIMIT_PER_CLIENT_RPS", 2),
		RateLimitBurst:        getIntEnv("RATE_LIMIT_BURST", 5),
		MaxConcurrentEvals:    getIntEnv("MAX_CONCURRENT_EVALUATIONS", 8),
		TrustProxyHeaders:     getBoolEnv("TRUST_PROXY_HEADERS", false),
	}
}
