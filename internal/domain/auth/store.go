package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrRoleUnknown  = errors.New("unknown role")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM role_permissions rp
    JOIN permissions p ON rp.permission_id = p.id
    WHERE rp.role_id = $1 AND p.key = $2
  `, roleID, permission).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type credentials struct {
	UserID       string
	PasswordHash string
	RoleID       string
	RoleName     string
	IsActive     bool
}

func (s *Store) credentialsByEmail(ctx context.Context, email string) (credentials, error) {
	var creds credentials
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.password_hash, u.role_id, r.name, u.is_active
    FROM users u
    JOIN roles r ON u.role_id = r.id
    WHERE u.email = $1
  `, email).Scan(&creds.UserID, &creds.PasswordHash, &creds.RoleID, &creds.RoleName, &creds.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return creds, ErrUserNotFound
	}
	return creds, err
}

// Authenticate verifies the password and returns claims for an active user.
func (s *Store) Authenticate(ctx context.Context, email, password string) (Claims, error) {
	creds, err := s.credentialsByEmail(ctx, email)
	if err != nil {
		return Claims{}, err
	}
	if !creds.IsActive {
		return Claims{}, ErrUserNotFound
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return Claims{}, ErrUserNotFound
	}
	return Claims{UserID: creds.UserID, RoleID: creds.RoleID, RoleName: creds.RoleName}, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.email, u.role_id, r.name, u.is_active, u.created_at, u.updated_at
    FROM users u
    JOIN roles r ON u.role_id = r.id
    WHERE u.id = $1
  `, userID).Scan(&user.ID, &user.Email, &user.RoleID, &user.RoleName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.email, u.role_id, r.name, u.is_active, u.created_at, u.updated_at
    FROM users u
    JOIN roles r ON u.role_id = r.id
    ORDER BY u.email
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.RoleID, &user.RoleName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, email, password, roleName string) (string, error) {
	var roleID string
	err := s.DB.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", roleName).Scan(&roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRoleUnknown
	}
	if err != nil {
		return "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	return insertUser(ctx, s.DB, email, hash, roleID)
}

// InsertUser creates a login with an already hashed password, resolving the
// role inside the caller's transaction.
func InsertUser(ctx context.Context, q querier.Querier, email, passwordHash, roleName string) (string, error) {
	var roleID string
	err := q.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", roleName).Scan(&roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRoleUnknown
	}
	if err != nil {
		return "", err
	}
	return insertUser(ctx, q, email, passwordHash, roleID)
}

func insertUser(ctx context.Context, q querier.Querier, email, passwordHash, roleID string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role_id)
    VALUES ($1,$2,$3)
    RETURNING id
  `, email, passwordHash, roleID).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

// DeactivateUser flips the active flag. Users are never hard-deleted.
func DeactivateUser(ctx context.Context, q querier.Querier, userID string) error {
	cmd, err := q.Exec(ctx, "UPDATE users SET is_active = false, updated_at = now() WHERE id = $1", userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deactivate flips the active flag outside a wider transaction.
func (s *Store) Deactivate(ctx context.Context, userID string) error {
	return DeactivateUser(ctx, s.DB, userID)
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}
