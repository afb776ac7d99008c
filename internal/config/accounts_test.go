package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAccountsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAccounts_OrderPreserved(t *testing.T) {
	path := writeAccountsFile(t, `
accounts:
  - label: primary
    key: key-1
    secret: secret-1
  - label: secondary
    key: key-2
    secret: secret-2
    base_url: https://api.ote-godaddy.com
`)

	accounts, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "primary", accounts[0].Label)
	assert.Equal(t, "https://api.godaddy.com", accounts[0].BaseURL)
	assert.Equal(t, "Godaddy", accounts[0].Registrar)
	assert.Equal(t, "secondary", accounts[1].Label)
	assert.Equal(t, "https://api.ote-godaddy.com", accounts[1].BaseURL)
}

func TestLoadAccounts_Empty(t *testing.T) {
	path := writeAccountsFile(t, "accounts: []\n")

	_, err := LoadAccounts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no accounts")
}

func TestLoadAccounts_MissingCredentials(t *testing.T) {
	path := writeAccountsFile(t, `
accounts:
  - label: primary
    key: key-1
`)

	_, err := LoadAccounts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key and secret")
}

func TestLoadAccounts_MissingFile(t *testing.T) {
	_, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadAccounts_BadYAML(t *testing.T) {
	path := writeAccountsFile(t, "accounts: [whoops")

	_, err := LoadAccounts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse registrar accounts file")
}
