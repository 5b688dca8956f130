package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	// Client configuration
	APIBaseURL     string
	APIUser        string
	APIPassword    string
	RequestTimeout time.Duration

	// Server configuration
	Port       string
	UploadsDir string
	MaxCVSize  int64
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		log.Println("Attempting to load from parent directory...")
		err = godotenv.Load("../../.env")
		if err != nil {
			log.Println("Warning: Could not load .env file, using environment variables")
		}
	}

	baseURL := os.Getenv("HR_API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}

	maxCVSize := int64(5 << 20) // 5 MB
	if v := os.Getenv("MAX_CV_SIZE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxCVSize = n
		}
	}

	timeout := 30 * time.Second
	if v := os.Getenv("HR_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		APIBaseURL:     baseURL,
		APIUser:        os.Getenv("HR_API_USER"),
		APIPassword:    os.Getenv("HR_API_PASSWORD"),
		RequestTimeout: timeout,
		Port:           port,
		UploadsDir:     uploadsDir,
		MaxCVSize:      maxCVSize,
	}
}
