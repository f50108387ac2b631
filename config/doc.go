// Package config loads service configuration with Viper.
//
// LoadConfig looks for cmd/<service>/config.yml (and a few fallbacks), loads
// a .env file through godotenv, then lets environment variables override
// the keys the config struct declares: MISTRAL_API_KEY fills mistral.api_key.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("callanalyzer", &cfg,
//	    config.WithDefaults(map[string]any{"server.port": 8080}))
package config
