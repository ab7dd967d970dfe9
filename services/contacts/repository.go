package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrDuplicate is returned when a phone number or email is already taken.
	ErrDuplicate = errors.New("contact with this phone number or email already exists")
	// ErrUnknownStatus is returned when status_id does not name a stored status.
	ErrUnknownStatus = errors.New("unknown status")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repository handles contact and status persistence in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// InitSchema creates the statuses and contacts tables if they do not exist.
func (r *Repository) InitSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS contact_statuses (
			id   UUID PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS contacts (
			id           UUID PRIMARY KEY,
			first_name   VARCHAR(50) NOT NULL,
			last_name    VARCHAR(50) NOT NULL,
			phone_number VARCHAR(9) NOT NULL UNIQUE,
			email        VARCHAR(100) NOT NULL UNIQUE,
			city         VARCHAR(50) NOT NULL,
			status_id    UUID REFERENCES contact_statuses(id) ON DELETE CASCADE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_contacts_last_name ON contacts (last_name);
		CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts (created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

var seedStatuses = []string{"Active", "Archived", "Potential"}

// Seed inserts the default statuses that are not already present.
func (r *Repository) Seed(ctx context.Context) error {
	for _, name := range seedStatuses {
		_, err := r.db.Exec(ctx, `
			INSERT INTO contact_statuses (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, uuid.New(), name)
		if err != nil {
			return fmt.Errorf("seed status %q: %w", name, err)
		}
	}
	return nil
}

// ListStatuses returns all statuses ordered by name.
func (r *Repository) ListStatuses(ctx context.Context) ([]Status, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM contact_statuses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	statuses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Status, error) {
		var s Status
		err := row.Scan(&s.ID, &s.Name)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan statuses: %w", err)
	}
	return statuses, nil
}

// GetStatus retrieves a status by ID. Returns nil, nil if not found.
func (r *Repository) GetStatus(ctx context.Context, id uuid.UUID) (*Status, error) {
	var s Status
	err := r.db.QueryRow(ctx, `SELECT id, name FROM contact_statuses WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	return &s, nil
}

const contactColumns = `
	c.id, c.first_name, c.last_name, c.phone_number, c.email, c.city, c.created_at,
	s.id, s.name
	FROM contacts c
	LEFT JOIN contact_statuses s ON s.id = c.status_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (Contact, error) {
	var c Contact
	var statusID *uuid.UUID
	var statusName *string
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.City, &c.CreatedAt,
		&statusID, &statusName)
	if err != nil {
		return Contact{}, err
	}
	if statusID != nil && statusName != nil {
		c.Status = &Status{ID: *statusID, Name: *statusName}
	}
	return c, nil
}

// ListContacts returns one page of contacts matching q.
func (r *Repository) ListContacts(ctx context.Context, q ListQuery) (*ContactPage, error) {
	var where []string
	var args []any

	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(c.first_name ILIKE $%[1]d OR c.last_name ILIKE $%[1]d OR c.email ILIKE $%[1]d OR c.phone_number ILIKE $%[1]d OR c.city ILIKE $%[1]d)", n))
	}
	if q.StatusID != nil {
		args = append(args, *q.StatusID)
		where = append(where, fmt.Sprintf("c.status_id = $%d", len(args)))
	}

	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts c`+filter, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	page, totalPages := paginate(q.page(), total)

	args = append(args, PageSize, (page-1)*PageSize)
	sql := fmt.Sprintf(`SELECT %s%s ORDER BY %s, c.id LIMIT $%d OFFSET $%d`,
		contactColumns, filter, q.orderBy(), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Contact, error) {
		return scanContact(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}

	return &ContactPage{Contacts: contacts, Total: total, Page: page, TotalPages: totalPages}, nil
}

// GetContact retrieves a contact by ID. Returns nil, nil if not found.
func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (*Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// CreateContact stores a new contact. The input must already be validated.
func (r *Repository) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	var statusID *uuid.UUID
	if in.StatusID != "" {
		id, err := uuid.Parse(in.StatusID)
		if err != nil {
			return nil, ErrUnknownStatus
		}
		statusID = &id
	}

	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO contacts (id, first_name, last_name, phone_number, email, city, status_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, in.FirstName, in.LastName, in.PhoneNumber, in.Email, in.City, statusID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return nil, ErrDuplicate
		case pgForeignKeyViolation:
			return nil, ErrUnknownStatus
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return r.GetContact(ctx, id)
}

// InitDB creates the schema and seeds initial data. Called from main on startup.
func InitDB(ctx context.Context, pool *pgxpool.Pool) error {
	repo := NewRepository(pool)
	if err := repo.InitSchema(ctx); err != nil {
		return err
	}
	return repo.Seed(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
