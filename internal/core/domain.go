package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halvard/cms/internal/model"
)

// ErrDuplicateDomain means a record with the same domain name already exists.
var ErrDuplicateDomain = errors.New("domain already exists")

// ErrDomainLocked means the operation refused to touch a manually protected
// record.
var ErrDomainLocked = errors.New("domain is locked")

const domainColumns = `id, name, registrar, expires_at, locked, renewable, status,
	 name_servers, renew_deadline, registrar_created_at, created_at, updated_at`

// DomainService is the system of record for canonical domain records, keyed
// uniquely by domain name.
type DomainService struct {
	db DB
}

func NewDomainService(db DB) *DomainService {
	return &DomainService{db: db}
}

// GetByName returns the record for a domain name, or nil when none exists.
func (s *DomainService) GetByName(ctx context.Context, name string) (*model.Domain, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+domainColumns+` FROM domains WHERE name = $1`, name,
	)
	d, err := scanDomain(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get domain %s: %w", name, err)
	}
	return d, nil
}

// Create inserts a new domain record. Returns ErrDuplicateDomain when the
// name is already present, so callers can treat the collision as benign.
func (s *DomainService) Create(ctx context.Context, d *model.Domain) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO domains (`+domainColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.Name, d.Registrar, d.ExpiresAt, d.Locked, d.Renewable, d.Status,
		d.NameServers, d.RenewDeadline, d.RegistrarCreatedAt, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("insert domain %s: %w", d.Name, ErrDuplicateDomain)
		}
		return fmt.Errorf("insert domain %s: %w", d.Name, err)
	}
	return nil
}

// Update applies a partial field merge to an existing record and returns the
// updated row.
func (s *DomainService) Update(ctx context.Context, name string, upd model.DomainUpdate) (*model.Domain, error) {
	sets := []string{"updated_at = now()"}
	args := []any{name}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Registrar != nil {
		add("registrar", *upd.Registrar)
	}
	if upd.ExpiresAt != nil {
		add("expires_at", *upd.ExpiresAt)
	}
	if upd.Locked != nil {
		add("locked", *upd.Locked)
	}
	if upd.Renewable != nil {
		add("renewable", *upd.Renewable)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.NameServers != nil {
		add("name_servers", upd.NameServers)
	}

	query := fmt.Sprintf(
		`UPDATE domains SET %s WHERE name = $1 RETURNING `+domainColumns,
		strings.Join(sets, ", "),
	)
	d, err := scanDomain(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update domain %s: %w", name, err)
	}
	return d, nil
}

// DeleteUnlocked removes every sync-managed record, leaving locked rows
// untouched. Returns the number of rows deleted.
func (s *DomainService) DeleteUnlocked(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM domains WHERE locked = false")
	if err != nil {
		return 0, fmt.Errorf("delete unlocked domains: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByName removes one record. Locked records are refused.
func (s *DomainService) DeleteByName(ctx context.Context, name string) error {
	var locked bool
	err := s.db.QueryRow(ctx, "SELECT locked FROM domains WHERE name = $1", name).Scan(&locked)
	if err != nil {
		return fmt.Errorf("delete domain %s: %w", name, err)
	}
	if locked {
		return fmt.Errorf("delete domain %s: %w", name, ErrDomainLocked)
	}

	_, err = s.db.Exec(ctx, "DELETE FROM domains WHERE name = $1 AND locked = false", name)
	if err != nil {
		return fmt.Errorf("delete domain %s: %w", name, err)
	}
	return nil
}

// List returns domain records ordered by name, using cursor pagination.
func (s *DomainService) List(ctx context.Context, limit int, cursor string) ([]model.Domain, bool, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+domainColumns+` FROM domains WHERE name > $1 ORDER BY name LIMIT $2`,
		cursor, limit+1,
	)
	if err != nil {
		return nil, false, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	var domains []model.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan domain: %w", err)
		}
		domains = append(domains, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate domains: %w", err)
	}

	hasMore := len(domains) > limit
	if hasMore {
		domains = domains[:limit]
	}
	return domains, hasMore, nil
}

func scanDomain(row pgx.Row) (*model.Domain, error) {
	var d model.Domain
	err := row.Scan(&d.ID, &d.Name, &d.Registrar, &d.ExpiresAt, &d.Locked, &d.Renewable,
		&d.Status, &d.NameServers, &d.RenewDeadline, &d.RegistrarCreatedAt,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
