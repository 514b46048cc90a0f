package config

import "os"

type Config struct {
	HTTPAddr   string
	JWTSecret  string
	AdminEmail string
	AdminPass  string
	GelfAddr   string

	StorageDriver string
	StorageFSRoot string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3PathStyle   bool

	RetryAttempts int
	RetryBaseMs   int
}

func Load() *Config {
	return &Config{
		HTTPAddr:   getEnv("PT_ADDR", ":8080"),
		JWTSecret:  getEnv("PT_JWT_SECRET", "partnertrack-dev-secret-change-me"),
		AdminEmail: getEnv("PT_ADMIN_EMAIL", "admin@partnertrack.local"),
		AdminPass:  getEnv("PT_ADMIN_PASS", "admin123"),
		GelfAddr:   getEnv("PT_GELF_ADDR", ""),

		StorageDriver: getEnv("PT_STORAGE_DRIVER", "fs"),
		StorageFSRoot: getEnv("PT_STORAGE_FS_ROOT", "./data"),
		S3Bucket:      getEnv("PT_S3_BUCKET", ""),
		S3Region:      getEnv("PT_S3_REGION", ""),
		S3Endpoint:    getEnv("PT_S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("PT_S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("PT_S3_SECRET_KEY", ""),
		S3PathStyle:   getEnv("PT_S3_PATH_STYLE", "") == "true",

		RetryAttempts: getEnvInt("PT_STORAGE_RETRIES", 3),
		RetryBaseMs:   getEnvInt("PT_STORAGE_RETRY_BASE_MS", 100),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}
