package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"moodindex/bot"
	"moodindex/chart"
	"moodindex/internal/util"
	"moodindex/publish"
	"moodindex/scrape"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configByte []byte

const encPrefix = "enc:"

const (
	envLog       = "MMI_LOG"
	envCookie    = "MMI_COOKIE"
	envConfigKey = "MMI_CONFIG_KEY"
	envTgToken   = "MMI_TELEGRAM_TOKEN"
	envTgChatId  = "MMI_TELEGRAM_CHAT_ID"
)

type Config struct {
	Log string `yaml:"log"`
	Mmi struct {
		Url     string            `yaml:"url" validate:"required,url"`
		Timeout time.Duration     `yaml:"timeout" validate:"gt=0"`
		Headers map[string]string `yaml:"headers"`
		Cookies map[string]string `yaml:"cookies"`
	} `yaml:"mmi"`
	Probe struct {
		HistoryUrl string `yaml:"history-url" validate:"omitempty,url"`
		PageUrl    string `yaml:"page-url" validate:"required,url"`
	} `yaml:"probe"`
	History struct {
		Path string `yaml:"path" validate:"required"`
	} `yaml:"history"`
	Chart struct {
		Path       string `yaml:"path" validate:"required"`
		WindowDays int    `yaml:"window-days" validate:"gt=0,lte=36500"`
		Width      int    `yaml:"width" validate:"gte=0"`
		Height     int    `yaml:"height" validate:"gte=0"`
	} `yaml:"chart"`
	Status struct {
		Path        string         `yaml:"path" validate:"required"`
		Title       string         `yaml:"title"`
		Logo        string         `yaml:"logo"`
		HistoryLink string         `yaml:"history-link"`
		ApiLinks    []publish.Link `yaml:"api-links"`
	} `yaml:"status"`
	Telegram struct {
		ChatId string `yaml:"chatId"`
		Token  string `yaml:"token"`
	} `yaml:"telegram"`
	Schedule string `yaml:"schedule" validate:"required"`
}

// NewConfig reads the yaml at path, or the embedded defaults when path is
// empty, then applies environment overrides and validates the result.
func NewConfig(path string) (*Config, error) {

	raw := configByte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		raw = b
	}

	var ConfigInfo Config = Config{}

	err := yaml.Unmarshal(raw, &ConfigInfo)
	if err != nil {
		return nil, err
	}

	if err := ConfigInfo.applyEnv(); err != nil {
		return nil, err
	}

	if err := ConfigInfo.decryptCookies(os.Getenv(envConfigKey)); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(ConfigInfo); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &ConfigInfo, nil
}

// LoadEnv loads a dotenv file into the process environment. A missing file is not an error.
func LoadEnv(file string) error {
	err := godotenv.Load(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envLog); v != "" {
		c.Log = v
	}
	if v := os.Getenv(envTgToken); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(envTgChatId); v != "" {
		c.Telegram.ChatId = v
	}
	if v := os.Getenv(envCookie); v != "" {
		cookies, err := http.ParseCookie(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envCookie, err)
		}
		if c.Mmi.Cookies == nil {
			c.Mmi.Cookies = make(map[string]string, len(cookies))
		}
		for _, ck := range cookies {
			c.Mmi.Cookies[ck.Name] = ck.Value
		}
	}
	return nil
}

func (c *Config) decryptCookies(key string) (err error) {
	for name, value := range c.Mmi.Cookies {
		if !strings.HasPrefix(value, encPrefix) {
			continue
		}
		if key == "" {
			return fmt.Errorf("cookie %s is encrypted but %s is not set", name, envConfigKey)
		}
		c.Mmi.Cookies[name], err = util.Decrypt([]byte(key), strings.TrimPrefix(value, encPrefix))
		if err != nil {
			return fmt.Errorf("decrypt cookie %s: %w", name, err)
		}
	}
	return nil
}

// EncryptSecret produces a config value that NewConfig decrypts with the key
// in MMI_CONFIG_KEY.
func EncryptSecret(plain string) (string, error) {
	key := os.Getenv(envConfigKey)
	if key == "" {
		return "", fmt.Errorf("%s is not set", envConfigKey)
	}
	enc, err := util.Encrypt([]byte(key), plain)
	if err != nil {
		return "", err
	}
	return encPrefix + enc, nil
}

func (c Config) LogLevel() (zerolog.Level, error) {

	level, err := zerolog.ParseLevel(c.Log)
	if err != nil {
		return zerolog.InfoLevel, err
	}
	if level == zerolog.NoLevel {
		return zerolog.InfoLevel, nil
	}

	return level, nil
}

func (c Config) ScraperConfig() *scrape.MmiConfig {
	return &scrape.MmiConfig{
		Url:     c.Mmi.Url,
		Timeout: c.Mmi.Timeout,
		Headers: c.Mmi.Headers,
		Cookies: c.Mmi.Cookies,
	}
}

func (c Config) ProbeConfig() *scrape.ProbeConfig {
	return &scrape.ProbeConfig{
		HistoryUrl: c.Probe.HistoryUrl,
		PageUrl:    c.Probe.PageUrl,
	}
}

func (c Config) RendererConfig() chart.RendererConfig {
	return chart.RendererConfig{
		Width:  c.Chart.Width,
		Height: c.Chart.Height,
	}
}

func (c Config) PublisherConfig() publish.PublisherConfig {
	link := c.Status.HistoryLink
	if link == "" {
		link = c.History.Path
	}
	return publish.PublisherConfig{
		Path:        c.Status.Path,
		Title:       c.Status.Title,
		Logo:        c.Status.Logo,
		HistoryLink: link,
		WindowDays:  c.Chart.WindowDays,
		ApiLinks:    c.Status.ApiLinks,
	}
}

func (c Config) TelegramEnabled() bool {
	return c.Telegram.Token != ""
}

func (c Config) BotConfig() (*bot.TeleBotConfig, error) {

	chatId, err := strconv.ParseInt(c.Telegram.ChatId, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram chatId: %w", err)
	}

	return &bot.TeleBotConfig{
		Token:  c.Telegram.Token,
		ChatId: chatId,
	}, nil
}
