package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the process environment. Missing file is fine
// in production where everything comes from the real environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}
}
