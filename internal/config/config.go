// Package config resolves credentials and endpoints for the remote
// budgeting service.
//
// The API key is resolved from the environment first, then from a YAML
// config file under the nested ynab.api_key key. Absence of both is a fatal
// configuration error raised before any network call is made.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"transaction-matcher/pkg/errors"
)

const (
	// EnvAPIKey is the environment variable consulted before the config file.
	EnvAPIKey = "YNAB_API_KEY"

	// DefaultAPIURL is the production endpoint of the budgeting service.
	DefaultAPIURL = "https://api.ynab.com/v1"
)

// YNAB holds the resolved remote-service configuration.
type YNAB struct {
	APIKey string
	APIURL string
}

type fileConfig struct {
	YNAB struct {
		APIKey string `yaml:"api_key"`
		APIURL string `yaml:"api_url"`
	} `yaml:"ynab"`
}

// LoadYNAB resolves the remote-service configuration. configPath may be
// empty when the caller relies on the environment alone.
func LoadYNAB(configPath string) (*YNAB, error) {
	cfg := &YNAB{
		APIKey: os.Getenv(EnvAPIKey),
		APIURL: DefaultAPIURL,
	}

	if configPath != "" {
		if fileCfg, err := readFile(configPath); err == nil {
			if cfg.APIKey == "" {
				cfg.APIKey = fileCfg.YNAB.APIKey
			}
			if fileCfg.YNAB.APIURL != "" {
				cfg.APIURL = fileCfg.YNAB.APIURL
			}
		} else if cfg.APIKey == "" {
			// The file was the last chance to find a key; surface why it
			// could not be used.
			return nil, err
		}
	}

	if cfg.APIKey == "" {
		return nil, errors.ConfigurationError(errors.CodeMissingCredential, EnvAPIKey, nil).
			WithSuggestion("set " + EnvAPIKey + " or add ynab.api_key to the config file")
	}

	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, path, err).
			WithSuggestion("check that the config file exists and is readable")
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, path, err).
			WithSuggestion("check the config file YAML syntax")
	}

	return &cfg, nil
}
