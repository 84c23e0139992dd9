package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	// Stripe secret key (sk_...). Empty means checkout completes
	// synchronously without a payment redirect.
	StripeSecretKey string

	// S3 upload target. Empty bucket means uploads fall back to data URLs.
	AWSRegion string
	AWSBucket string
}

// Load reads .env (if present) and assembles the Config.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		Port:            GetEnv("PORT", "3000"),
		MongoURI:        GetEnv("MONGODB_URI", ""),
		MongoDatabase:   GetEnv("MONGODB_DATABASE", "cryptoclub"),
		StripeSecretKey: GetEnv("STRIPE_SECRET_KEY", ""),
		AWSRegion:       GetEnv("AWS_REGION", "eu-central-1"),
		AWSBucket:       GetEnv("AWS_BUCKET_NAME", ""),
	}
}

// GetEnv retrieves an environment variable with a fallback.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
