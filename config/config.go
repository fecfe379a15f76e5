package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config is everything the binaries read from the environment. Kafka settings
// live in kafka_client.GetKafkaConfig.
type Config struct {
	Lexicons LexiconConfig
	// RootsPath is an optional extra root-word list for the stemmer.
	RootsPath string

	SentimentEngine string
	Model           ModelConfig
	Workers         int

	Valkey  ValkeyConfig
	YouTube YouTubeConfig

	YouTubeDownloader string
	TikTokScraper     string

	// TopicServiceURL enables topic fitting in the HTML report when set.
	TopicServiceURL string

	MetricsAddr string
}

type LexiconConfig struct {
	Stopwords string
	Positive  string
	Negative  string
	Emotions  string
}

type ModelConfig struct {
	Path            string
	Name            string
	Dir             string
	OnnxLibraryPath string
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

type YouTubeConfig struct {
	APIKey     string
	OAuthToken string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("[Config] Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return b
}

func FromEnv() Config {
	return Config{
		Lexicons: LexiconConfig{
			Stopwords: getEnv("LEXICON_STOPWORDS", "lexicons/stopwords.txt"),
			Positive:  getEnv("LEXICON_POSITIVE", "lexicons/positif.txt"),
			Negative:  getEnv("LEXICON_NEGATIVE", "lexicons/negatif.txt"),
			Emotions:  getEnv("LEXICON_EMOTIONS", "lexicons/emosi.txt"),
		},
		RootsPath:       os.Getenv("ROOTS_PATH"),
		SentimentEngine: getEnv("SENTIMENT_ENGINE", "lexicon"),
		Model: ModelConfig{
			Path:            os.Getenv("MODEL_PATH"),
			Name:            getEnv("MODEL_NAME", "w11wo/indonesian-roberta-base-sentiment-classifier"),
			Dir:             getEnv("MODEL_DIR", "./models"),
			OnnxLibraryPath: os.Getenv("ONNX_LIBRARY_PATH"),
		},
		Workers: getEnvInt("WORKERS", 0),
		Valkey: ValkeyConfig{
			Address:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      getEnvBool("VALKEY_TLS", false),
		},
		YouTube: YouTubeConfig{
			APIKey:     os.Getenv("YOUTUBE_API_KEY"),
			OAuthToken: os.Getenv("YOUTUBE_OAUTH_TOKEN"),
		},
		YouTubeDownloader: getEnv("YOUTUBE_DOWNLOADER_BIN", "youtube-comment-downloader"),
		TikTokScraper:     getEnv("TIKTOK_SCRAPER_BIN", "tiktok-comment-scraper"),
		TopicServiceURL:   os.Getenv("TOPIC_SERVICE_URL"),
		MetricsAddr:       getEnv("METRICS_ADDR", ":2112"),
	}
}
