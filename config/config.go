package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Capture      CaptureConfig      `yaml:"capture"`
	Recognition  RecognitionConfig  `yaml:"recognition"`
	Conversation ConversationConfig `yaml:"conversation"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Anthropic    AnthropicConfig    `yaml:"anthropic"`
	Synthesis    SynthesisConfig    `yaml:"synthesis"`
	Session      SessionConfig      `yaml:"session"`
	Log          LogConfig          `yaml:"log"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	Title          string   `yaml:"title"`
	AboutURL       string   `yaml:"about_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      int      `yaml:"rate_limit"`
	RateWindow     string   `yaml:"rate_window"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	MaxClips       int      `yaml:"max_clips"`
}

type CaptureConfig struct {
	// Mode is upload (browser recording), microphone or file.
	Mode            string  `yaml:"mode"`
	FileDir         string  `yaml:"file_dir"`
	SampleRate      int     `yaml:"sample_rate"`
	EnergyThreshold float64 `yaml:"energy_threshold"`
	Pause           string  `yaml:"pause"`
	MaxPhrase       string  `yaml:"max_phrase"`
}

type RecognitionConfig struct {
	Provider        string `yaml:"provider"`
	Language        string `yaml:"language"`
	CredentialsFile string `yaml:"credentials_file"`
	Timeout         string `yaml:"timeout"`
}

type ConversationConfig struct {
	Provider          string `yaml:"provider"`
	SystemInstruction string `yaml:"system_instruction"`
	Timeout           string `yaml:"timeout"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type SynthesisConfig struct {
	Provider        string `yaml:"provider"`
	Language        string `yaml:"language"`
	TempDir         string `yaml:"temp_dir"`
	CredentialsFile string `yaml:"credentials_file"`
	Timeout         string `yaml:"timeout"`
}

type SessionConfig struct {
	IdleTimeout   string `yaml:"idle_timeout"`
	SweepInterval string `yaml:"sweep_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env (if present) and then the YAML file at path with ${VAR}
// expansion. A missing file yields defaults plus environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Title == "" {
		c.Server.Title = "Gemini Voice ChatBot"
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 30
	}
	if c.Server.RateWindow == "" {
		c.Server.RateWindow = "1m"
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 10 * 1024 * 1024
	}
	if c.Server.MaxClips == 0 {
		c.Server.MaxClips = 256
	}
	if c.Capture.Mode == "" {
		c.Capture.Mode = "upload"
	}
	if c.Capture.FileDir == "" {
		c.Capture.FileDir = "./audio"
	}
	if c.Capture.SampleRate == 0 {
		c.Capture.SampleRate = 16000
	}
	if c.Capture.EnergyThreshold == 0 {
		c.Capture.EnergyThreshold = 300
	}
	if c.Capture.Pause == "" {
		c.Capture.Pause = "800ms"
	}
	if c.Recognition.Provider == "" {
		c.Recognition.Provider = "google"
	}
	if c.Recognition.Language == "" {
		c.Recognition.Language = "en-US"
	}
	if c.Recognition.Timeout == "" {
		c.Recognition.Timeout = "30s"
	}
	if c.Conversation.Provider == "" {
		c.Conversation.Provider = "gemini"
	}
	if c.Conversation.Timeout == "" {
		c.Conversation.Timeout = "30s"
	}
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if c.Synthesis.Provider == "" {
		c.Synthesis.Provider = "gtts"
	}
	if c.Synthesis.Language == "" {
		c.Synthesis.Language = "en"
	}
	if c.Synthesis.TempDir == "" {
		c.Synthesis.TempDir = os.TempDir()
	}
	if c.Synthesis.Timeout == "" {
		c.Synthesis.Timeout = "30s"
	}
	if c.Session.IdleTimeout == "" {
		c.Session.IdleTimeout = "30m"
	}
	if c.Session.SweepInterval == "" {
		c.Session.SweepInterval = "1m"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if !oneOf(c.Capture.Mode, "upload", "microphone", "file") {
		return fmt.Errorf("invalid capture.mode %q", c.Capture.Mode)
	}
	if !oneOf(c.Recognition.Provider, "google", "whisper", "none") {
		return fmt.Errorf("invalid recognition.provider %q", c.Recognition.Provider)
	}
	if !oneOf(c.Conversation.Provider, "gemini", "openai", "anthropic") {
		return fmt.Errorf("invalid conversation.provider %q", c.Conversation.Provider)
	}
	if !oneOf(c.Synthesis.Provider, "gtts", "google") {
		return fmt.Errorf("invalid synthesis.provider %q", c.Synthesis.Provider)
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
