package registrar

import (
	"fmt"
	"strings"
	"time"

	"github.com/halvard/cms/internal/model"
)

// DefaultRegistrarLabel is used when an account does not override the
// registrar label stored on mapped records.
const DefaultRegistrarLabel = "Godaddy"

// MapDomain normalizes one raw registrar record into a canonical domain
// record. Required fields fail closed: a record without a domain name or a
// parseable expiry cannot be stored. Optional fields get defaults. Mapped
// records are never pre-locked; locking is a manual operator action.
func MapDomain(raw RawDomain, registrarLabel string) (*model.Domain, error) {
	name := strings.ToLower(strings.TrimSpace(raw.Domain))
	if name == "" {
		return nil, fmt.Errorf("map domain record: missing field domain")
	}

	if raw.Expires == "" {
		return nil, fmt.Errorf("map domain %s: missing field expires", name)
	}
	expiresAt, err := time.Parse(time.RFC3339, raw.Expires)
	if err != nil {
		return nil, fmt.Errorf("map domain %s: malformed field expires: %w", name, err)
	}

	status := raw.Status
	if status == "" {
		status = model.StatusActive
	}

	nameServers := raw.NameServers
	if nameServers == nil {
		nameServers = []string{}
	}

	d := &model.Domain{
		Name:        name,
		Registrar:   registrarLabel,
		ExpiresAt:   expiresAt,
		Locked:      false,
		Renewable:   raw.Renewable,
		Status:      status,
		NameServers: nameServers,
	}
	if d.Registrar == "" {
		d.Registrar = DefaultRegistrarLabel
	}

	if raw.RenewDeadline != "" {
		t, err := time.Parse(time.RFC3339, raw.RenewDeadline)
		if err != nil {
			return nil, fmt.Errorf("map domain %s: malformed field renewDeadline: %w", name, err)
		}
		d.RenewDeadline = &t
	}
	if raw.RegistrarCreatedAt != "" {
		t, err := time.Parse(time.RFC3339, raw.RegistrarCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("map domain %s: malformed field registrarCreatedAt: %w", name, err)
		}
		d.RegistrarCreatedAt = &t
	}

	return d, nil
}
