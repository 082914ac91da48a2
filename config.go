package gametree

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	HistoryLimit int    `mapstructure:"HISTORY_LIMIT"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	DubiousThreshold float64 `mapstructure:"DUBIOUS_THRESHOLD"`
	MistakeThreshold float64 `mapstructure:"MISTAKE_THRESHOLD"`
	BlunderThreshold float64 `mapstructure:"BLUNDER_THRESHOLD"`
	OnlyMoveGap      float64 `mapstructure:"ONLY_MOVE_GAP"`
	WinningThreshold float64 `mapstructure:"WINNING_THRESHOLD"`
}

const defaultHistoryLimit = 200

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	cc := DefaultClassifierConfig()
	return Config{
		HistoryLimit:     defaultHistoryLimit,
		LogLevel:         "info",
		DubiousThreshold: cc.Dubious,
		MistakeThreshold: cc.Mistake,
		BlunderThreshold: cc.Blunder,
		OnlyMoveGap:      cc.OnlyMoveGap,
		WinningThreshold: cc.Winning,
	}
}

// Classifier returns the thresholds for DefaultClassifier.
func (c Config) Classifier() ClassifierConfig {
	return ClassifierConfig{
		Dubious:     c.DubiousThreshold,
		Mistake:     c.MistakeThreshold,
		Blunder:     c.BlunderThreshold,
		OnlyMoveGap: c.OnlyMoveGap,
		Winning:     c.WinningThreshold,
	}
}

// LoadConfig reads cfgPath (any format viper knows, .env included). Keys
// missing from the file fall back to DefaultConfig, and GAMETREE_* environment
// variables override both.
func LoadConfig(cfgPath string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetEnvPrefix("GAMETREE")
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("HISTORY_LIMIT", def.HistoryLimit)
	v.SetDefault("LOG_LEVEL", def.LogLevel)
	v.SetDefault("DUBIOUS_THRESHOLD", def.DubiousThreshold)
	v.SetDefault("MISTAKE_THRESHOLD", def.MistakeThreshold)
	v.SetDefault("BLUNDER_THRESHOLD", def.BlunderThreshold)
	v.SetDefault("ONLY_MOVE_GAP", def.OnlyMoveGap)
	v.SetDefault("WINNING_THRESHOLD", def.WinningThreshold)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("gametree: read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("gametree: decode config: %w", err)
	}
	if cfg.HistoryLimit < 0 {
		return Config{}, fmt.Errorf("gametree: HISTORY_LIMIT must not be negative, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}
