package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printdesk/printdesk/internal/orders"
)

// ErrNotFound is returned when a user id or email has no row.
var ErrNotFound = errors.New("users: not found")

// ErrEmailTaken is returned when the email already belongs to another
// account.
var ErrEmailTaken = errors.New("users: email already registered")

type Repository interface {
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role orders.Role) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateRoles(ctx context.Context, id int64, roles []orders.Role) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, name, roles, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var roles []string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &roles, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.Roles = make([]orders.Role, 0, len(roles))
	for _, r := range roles {
		u.Roles = append(u.Roles, orders.Role(r))
	}
	return u, nil
}

func rolesToStrings(roles []orders.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *repository) ListByRole(ctx context.Context, role orders.Role) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE $1 = ANY(roles) AND is_active ORDER BY name ASC`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	var list []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *repository) Create(ctx context.Context, user User) (User, error) {
	query := `INSERT INTO users (email, name, roles, password_hash, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		user.Email, user.Name, rolesToStrings(user.Roles), user.PasswordHash, user.IsActive, now, now,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func (r *repository) UpdateRoles(ctx context.Context, id int64, roles []orders.Role) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET roles = $1, updated_at = $2 WHERE id = $3`, rolesToStrings(roles), time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3`, active, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
