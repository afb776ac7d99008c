package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultRegistrarBaseURL = "https://api.godaddy.com"
	defaultRegistrarName    = "Godaddy"
)

// RegistrarAccount holds one set of registrar API credentials. Domain
// ownership is split across accounts; the order of accounts in the file is
// the rotation priority, and the first account is the one whose full listing
// drives bulk sync.
type RegistrarAccount struct {
	Label   string `yaml:"label"`
	Key     string `yaml:"key"`
	Secret  string `yaml:"secret"`
	BaseURL string `yaml:"base_url"`
	// Registrar is the brand name stored on records imported through this
	// account, e.g. "Godaddy".
	Registrar string `yaml:"registrar"`
}

type accountsFile struct {
	Accounts []RegistrarAccount `yaml:"accounts"`
}

// LoadAccounts reads the ordered registrar account list from a YAML file.
func LoadAccounts(path string) ([]RegistrarAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registrar accounts file: %w", err)
	}

	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registrar accounts file: %w", err)
	}

	if len(f.Accounts) == 0 {
		return nil, fmt.Errorf("registrar accounts file %s contains no accounts", path)
	}

	for i := range f.Accounts {
		a := &f.Accounts[i]
		if a.Label == "" {
			return nil, fmt.Errorf("registrar account %d: label is required", i)
		}
		if a.Key == "" || a.Secret == "" {
			return nil, fmt.Errorf("registrar account %q: key and secret are required", a.Label)
		}
		if a.BaseURL == "" {
			a.BaseURL = defaultRegistrarBaseURL
		}
		if a.Registrar == "" {
			a.Registrar = defaultRegistrarName
		}
	}

	return f.Accounts, nil
}
