package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	DataDir  string
	DBPath   string

	// Turn orchestration knobs.
	DebounceWindow  time.Duration
	ChunkLimit      int
	HistoryPairs    int
	ReviewThreshold int
	DedupeTTL       time.Duration

	LLMProvider string
	LLMModel    string
	LLMAPIKey   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioNumber     string
}

func Load() Config {
	loadDotEnv(".env")
	dataDir := getEnv("GLOWBOT_DATA_DIR", "data")
	return Config{
		HTTPAddr: getEnv("GLOWBOT_HTTP_ADDR", ":8080"),
		DataDir:  dataDir,
		DBPath:   getEnv("GLOWBOT_DB_PATH", filepath.Join(dataDir, "glowbot.db")),

		DebounceWindow:  getDuration("GLOWBOT_DEBOUNCE_MS", 1500) * time.Millisecond,
		ChunkLimit:      getInt("GLOWBOT_CHUNK_LIMIT", 1500),
		HistoryPairs:    getInt("GLOWBOT_HISTORY_PAIRS", 20),
		ReviewThreshold: getInt("GLOWBOT_REVIEW_THRESHOLD", 2),
		DedupeTTL:       getDuration("GLOWBOT_DEDUPE_TTL_MIN", 20) * time.Minute,

		LLMProvider: getEnv("GLOWBOT_LLM_PROVIDER", "anthropic"),
		LLMModel:    getEnv("GLOWBOT_LLM_MODEL", ""),
		LLMAPIKey:   getEnv("GLOWBOT_LLM_API_KEY", ""),

		TwilioAccountSID: getEnv("GLOWBOT_TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("GLOWBOT_TWILIO_AUTH_TOKEN", ""),
		TwilioNumber:     getEnv("GLOWBOT_TWILIO_NUMBER", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback))
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, value)
	}
}
