// Package config loads all server settings from the environment.
package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	CORSOrigins string

	MongoURI string
	MongoDB  string
	// MongoTx disables session transactions when running against a
	// standalone mongod.
	MongoTx bool

	JWTSecret string
	TokenTTL  time.Duration

	S3Region    string
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

func Load() *Config {
	return &Config{
		Port:        getenv("PORT", "3000"),
		CORSOrigins: getenv("CORS_ORIGINS", "http://localhost:5173"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getenv("MONGO_DB", "connectups"),
		MongoTx:     getenv("MONGO_TX", "true") == "true",
		JWTSecret:   getenv("JWT_SECRET", "fallback-secret-key"),
		TokenTTL:    24 * time.Hour,
		S3Region:    getenv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Bucket:    getenv("S3_BUCKET", "connectups-media"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
