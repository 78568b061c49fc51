package config

import "time"

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	LLM     LLMConfig     `mapstructure:"llm"`
	App     AppConfig     `mapstructure:"app"`
	Session SessionConfig `mapstructure:"session"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// LLMConfig describes the chat-completion backend. APIKey may be empty at load
// time; the fetch service refuses to call out without it.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai or gemini
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"` // 0 keeps the variant's own value
	Timeout     time.Duration `mapstructure:"timeout"`     // 0 means no deadline beyond the HTTP client's
}

type AppConfig struct {
	Variant string `mapstructure:"variant"`
	Theme   string `mapstructure:"theme"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIBaseURL = "https://api.siliconflow.cn/v1"
	DefaultOpenAIModel   = "deepseek-ai/DeepSeek-V3"
	DefaultGeminiModel   = "gemini-1.5-flash"
)
