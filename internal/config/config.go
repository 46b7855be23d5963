package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host             string
	Port             int
	AllowOrigins     []string
	LogLevel         string
	LogFile          string
	MaxUploadMB      int
	VocabFile        string // optional YAML with size/colour/width tables
	DefaultHeaderRow int
}

// Load reads the environment, after an optional .env in the working directory.
func Load() Config {
	_ = godotenv.Load()

	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Host:             getenv("HOST", "127.0.0.1"),
		Port:             getint("PORT", 8083),
		AllowOrigins:     origins,
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFile:          getenv("LOG_FILE", "logs/variant-service.log"),
		MaxUploadMB:      getint("MAX_UPLOAD_MB", 64),
		VocabFile:        getenv("VOCAB_FILE", ""),
		DefaultHeaderRow: getint("DEFAULT_HEADER_ROW", 1),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	n, err := strconv.Atoi(getenv(k, ""))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
