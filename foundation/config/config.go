package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultLanguages is the BCP 47 allow-list used when no languages file is
// configured: Tamil, English, Hindi, Malayalam, Telugu.
var DefaultLanguages = []string{"ta", "en", "hi", "ml", "te"}

func Load(configPath string) (Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, err
	}

	var config Config

	if err := json.Unmarshal(bytes, &config); err != nil {
		return Config{}, fmt.Errorf("config[%s]: %w", configPath, err)
	}

	return config, nil
}

func GetPolicy(configPath string, version string) (Policy, error) {
	config, err := Load(configPath)
	if err != nil {
		return Policy{}, err
	}

	policy, exists := policyExists(config.Policies, version)
	if !exists {
		return Policy{}, fmt.Errorf("policy[%s] does not exist", version)
	}

	return policy, nil
}

func GetLanguages(configPath string) ([]string, error) {
	if configPath == "" {
		return DefaultLanguages, nil
	}

	config, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	if len(config.Languages) == 0 {
		return DefaultLanguages, nil
	}

	return config.Languages, nil
}

func policyExists(p []Policy, version string) (Policy, bool) {
	for _, policy := range p {
		if policy.Version == version {
			return policy, true
		}
	}
	return Policy{}, false
}
