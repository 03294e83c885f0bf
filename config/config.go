package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the process configuration, read once at startup from the
// environment (with an optional .env file for development).
type Config struct {
	Port      string
	Store     string // "dynamo" or "memory"
	AWSRegion string
	S3Bucket  string
	Redis     RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
}

// StoreDynamo and StoreMemory are the accepted STORE values.
const (
	StoreDynamo = "dynamo"
	StoreMemory = "memory"
)

// Load reads the configuration. A missing .env file is fine; real
// deployments set the environment directly.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port:      getEnv("PORT", "8080"),
		Store:     getEnv("STORE", StoreDynamo),
		AWSRegion: getEnv("AWS_REGION", "ap-south-1"),
		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
