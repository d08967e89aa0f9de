package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ToolConfig настройки notifyctl из YAML-файла
type ToolConfig struct {
	OrderAPIURL  string        `mapstructure:"order_api_url"`
	NotifyAPIURL string        `mapstructure:"notify_api_url"`
	Limit        int           `mapstructure:"limit"`
	Delay        time.Duration `mapstructure:"delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// LoadToolConfig читает YAML-файл; пустой путь даёт нулевую конфигурацию
func LoadToolConfig(path string) (*ToolConfig, error) {
	var cfg ToolConfig
	if path == "" {
		return &cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}
