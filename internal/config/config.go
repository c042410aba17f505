package config

import (
	"os"
)

const (
	// DatabaseName is the Mongo database holding the blog collections.
	DatabaseName = "blogme"
	// PostsCollection is the collection storing blog posts.
	PostsCollection = "posts"

	defaultMongoURI = "mongodb://localhost:27017"
	defaultPort     = "8080"
)

// Config carries the externally configured values: the store connection
// string and the listen port.
type Config struct {
	MongoURI string
	Port     string
}

// Load reads configuration from the environment, falling back to local
// development defaults.
func Load() *Config {
	return &Config{
		MongoURI: envOr("MONGO_URI", defaultMongoURI),
		Port:     envOr("PORT", defaultPort),
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// envOr returns the value of the environment variable key, or fallback if
// empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
