package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/xformreports/internal/pkg/constants"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/spf13/viper"
)

type BackendPrefix struct {
	Prefix  string `mapstructure:"prefix"`
	Backend string `mapstructure:"backend"`
}

type HTTP struct {
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DB struct {
	URL string `mapstructure:"url"`
}

type Session struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Country struct {
	CallingCode string `mapstructure:"calling_code"`
}

type Backends struct {
	Prefixes []BackendPrefix `mapstructure:"prefixes"`
}

type District struct {
	// Cutoff is the minimum similarity in [0, 1] a district name must reach.
	Cutoff float64 `mapstructure:"cutoff"`
}

type Export struct {
	MaxSheetRows int    `mapstructure:"max_sheet_rows"`
	Encoding     string `mapstructure:"encoding"`
}

type Messages struct {
	Applications []string `mapstructure:"applications"`
}

type Config struct {
	HTTP     HTTP     `mapstructure:"http"`
	DB       DB       `mapstructure:"db"`
	Session  Session  `mapstructure:"session"`
	Log      Log      `mapstructure:"log"`
	Country  Country  `mapstructure:"country"`
	Backends Backends `mapstructure:"backends"`
	District District `mapstructure:"district"`
	Export   Export   `mapstructure:"export"`
	Messages Messages `mapstructure:"messages"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Addr:         ":8080",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Session: Session{TTL: 24 * time.Hour},
		Log:     Log{Level: "info"},
		Country: Country{CallingCode: "256"},
		Backends: Backends{Prefixes: []BackendPrefix{
			{Prefix: "70", Backend: "warid"},
			{Prefix: "75", Backend: "zain"},
			{Prefix: "71", Backend: "utl"},
			{Prefix: "", Backend: "dmark"},
		}},
		District: District{Cutoff: 0.6},
		Export:   Export{MaxSheetRows: 65536, Encoding: "utf-8"},
		Messages: Messages{Applications: []string{"rapidsms_xforms", "poll"}},
	}
}

// Load reads the optional config file at path, then XFORMREPORTS_* environment
// variables, on top of Default. Without a configured session secret a random
// one is generated, so sessions only last as long as the process.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("xformreports")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal: %w", err)
	}

	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("randomSecret: %w", err)
		}
		cfg.Session.Secret = secret
		logger.Warn(context.Background(), "session.secret is not set, using a random secret")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers cfg as viper defaults. Slices from a file or the
// environment replace the default slice as a whole.
func setDefaults(v *viper.Viper, cfg *Config) {
	prefixes := make([]map[string]any, 0, len(cfg.Backends.Prefixes))
	for _, p := range cfg.Backends.Prefixes {
		prefixes = append(prefixes, map[string]any{"prefix": p.Prefix, "backend": p.Backend})
	}

	v.SetDefault(constants.ViperHTTPAddrKey, cfg.HTTP.Addr)
	v.SetDefault(constants.ViperHTTPAllowOriginsKey, cfg.HTTP.AllowOrigins)
	v.SetDefault(constants.ViperDBURLKey, cfg.DB.URL)
	v.SetDefault(constants.ViperSecretKey, cfg.Session.Secret)
	v.SetDefault(constants.ViperSessionTTLKey, cfg.Session.TTL)
	v.SetDefault(constants.ViperLogLevelKey, cfg.Log.Level)
	v.SetDefault(constants.ViperCountryCallingCodeKey, cfg.Country.CallingCode)
	v.SetDefault(constants.ViperBackendPrefixesKey, prefixes)
	v.SetDefault(constants.ViperDistrictCutoffKey, cfg.District.Cutoff)
	v.SetDefault(constants.ViperExportMaxSheetRowsKey, cfg.Export.MaxSheetRows)
	v.SetDefault(constants.ViperExportEncodingKey, cfg.Export.Encoding)
	v.SetDefault(constants.ViperMessageApplicationsKey, cfg.Messages.Applications)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("session.secret must not be empty")
	}
	if c.Country.CallingCode == "" {
		return errors.New("country.calling_code must not be empty")
	}
	if c.District.Cutoff < 0 || c.District.Cutoff > 1 {
		return fmt.Errorf("district.cutoff must be within [0, 1], got %v", c.District.Cutoff)
	}
	if c.Export.MaxSheetRows < 0 {
		return fmt.Errorf("export.max_sheet_rows must not be negative, got %d", c.Export.MaxSheetRows)
	}
	return nil
}
