package model

// Domain status constants. The registrar may report arbitrary status strings;
// these are the ones the system assigns itself.
const (
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusPending  = "pending"
	StatusDisabled = "disabled"
)

// PlatformConfig is one key-value row of operator-managed configuration.
type PlatformConfig struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}
