package config

import "os"

type Config struct {
	MongoURI string
	MongoDB  string
	Port     string
}

// Load reads configuration from the environment, falling back to local
// development defaults. The Mongo URI is not validated here; a bad value
// fails at connect time.
func Load() *Config {
	return &Config{
		MongoURI: getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:  getenv("MONGO_DB", "campus_events"),
		Port:     getenv("PORT", "3000"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
