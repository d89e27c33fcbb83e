package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"s3backup/internal/models"
)

type Config struct {
	ApiURL      string `validate:"omitempty,url"`
	AccessKey   string `validate:"required"`
	SecretKey   string `validate:"required"`
	BucketName  string
	Region      string `validate:"required"`
	Destination string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		ApiURL:      getEnv("API_URL", ""),
		AccessKey:   getEnv("ACCESS_KEY", ""),
		SecretKey:   getEnv("SECRET_KEY", ""),
		BucketName:  getEnv("BUCKET_NAME", ""),
		Region:      getEnv("REGION", ""),
		Destination: getEnv("DESTINATION", ""),
	}

	return config, nil
}

// Validate checks the fields needed to talk to the storage API.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", envName(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) Credential() models.Credential {
	return models.Credential{
		AccessKeyID:     c.AccessKey,
		SecretAccessKey: c.SecretKey,
		Region:          c.Region,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envName(field string) string {
	switch field {
	case "ApiURL":
		return "API_URL"
	case "AccessKey":
		return "ACCESS_KEY"
	case "SecretKey":
		return "SECRET_KEY"
	case "Region":
		return "REGION"
	default:
		return field
	}
}
