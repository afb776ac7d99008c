package model

import "time"

// Domain is the canonical record for one registered domain as known to the
// system of record. Sync-managed rows have Locked = false and may be
// deleted and re-created in bulk; Locked rows are never touched by sync.
type Domain struct {
	ID                 string     `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Registrar          string     `json:"registrar" db:"registrar"`
	ExpiresAt          time.Time  `json:"expires_at" db:"expires_at"`
	Locked             bool       `json:"locked" db:"locked"`
	Renewable          bool       `json:"renewable" db:"renewable"`
	Status             string     `json:"status" db:"status"`
	NameServers        []string   `json:"name_servers" db:"name_servers"`
	RenewDeadline      *time.Time `json:"renew_deadline,omitempty" db:"renew_deadline"`
	RegistrarCreatedAt *time.Time `json:"registrar_created_at,omitempty" db:"registrar_created_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// DomainUpdate holds the optional fields of a partial domain update. Nil
// fields are left unchanged.
type DomainUpdate struct {
	Registrar   *string    `json:"registrar,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Locked      *bool      `json:"locked,omitempty"`
	Renewable   *bool      `json:"renewable,omitempty"`
	Status      *string    `json:"status,omitempty"`
	NameServers []string   `json:"name_servers,omitempty"`
}
