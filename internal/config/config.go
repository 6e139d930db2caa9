// Package config handles input from etc/main.toml, environment variables and .env files.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding single settings,
	// e.g. ARTICLEGATE_JWT_ACCESSSECRET.
	EnvPrefix = "ARTICLEGATE"

	// EnvConfigJSON holds a JSON document merged over the main config file.
	EnvConfigJSON = "ARTICLEGATE_CONFIG_JSON"

	// DefaultPath is used when no config path was given.
	DefaultPath = "./etc/"

	mainFile = "main.toml"

	secretMask = "********"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, mainFile))

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(EnvConfigJSON); configAsJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configAsJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge "+EnvConfigJSON)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "articlegate")
	v.SetDefault("db.gormengine", EngineSQLite)
	v.SetDefault("db.path", "articlegate.db")
	v.SetDefault("webserver.basepath", "/api")
	v.SetDefault("webserver.shutdowntime", 5) //nolint:mnd
	v.SetDefault("jwt.accessttl", 15*time.Minute)
	v.SetDefault("jwt.refreshttl", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "articlegate")
	v.SetDefault("seed.defaultrole", "Viewer")
	// registered so AutomaticEnv can fill them even if main.toml omits them
	v.SetDefault("jwt.accesssecret", "")
	v.SetDefault("jwt.refreshsecret", "")
	v.SetDefault("db.password", "")
}

// DumpConfig config as TOML String. Secrets are masked.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(masked(c))
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String. Secrets are masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(masked(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func masked(c *Config) Config {
	out := *c

	for _, s := range []*string{&out.JWT.AccessSecret, &out.JWT.RefreshSecret, &out.DB.Password} {
		if *s != "" {
			*s = secretMask
		}
	}

	return out
}

// validate minimal config settings needed to start the service.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.Wrap(ErrJWTSecretMissing, invalidErrMessage)
	}

	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.Wrap(ErrJWTSecretsEqual, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	return nil
}
