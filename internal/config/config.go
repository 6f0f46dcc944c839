package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Cron       CronConfig       `mapstructure:"cron"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	AlertSweep string `mapstructure:"alert_sweep"`
}

// SimulationConfig carries the cycle policy: the cycle lengths on offer and
// the per-cycle yield rate frozen into an order at creation time.
// RateSchedule keys are cycle lengths in days (viper map keys are strings).
type SimulationConfig struct {
	DefaultCycleDays int                `mapstructure:"default_cycle_days"`
	DepositStep      int64              `mapstructure:"deposit_step"`
	RateSchedule     map[string]float64 `mapstructure:"rate_schedule"`
}

func (c SimulationConfig) RateFor(cycleDays int) (float64, bool) {
	rate, ok := c.RateSchedule[strconv.Itoa(cycleDays)]
	return rate, ok
}

type AlertsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AnalyticsConfig struct {
	MonthsBack int `mapstructure:"months_back"`
}

type AuthConfig struct {
	Users []UserCredential `mapstructure:"users"`
}

type UserCredential struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.alert_sweep", "0 0 8 * * *")
	v.SetDefault("simulation.default_cycle_days", 28)
	v.SetDefault("simulation.deposit_step", 500)
	v.SetDefault("simulation.rate_schedule", map[string]float64{
		"28": 0.24,
		"14": 0.095,
		"7":  0.04,
		"1":  0.004,
	})
	v.SetDefault("alerts.enabled", true)
	v.SetDefault("analytics.months_back", 12)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
