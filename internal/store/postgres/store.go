package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// PostgreSQL error codes we translate into store errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping checks that the pool can reach the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const userColumns = `id, email, hashed_password, first_name, last_name, major, minor, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.FirstName,
		&user.LastName,
		&user.Major,
		&user.Minor,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser inserts a new user record into the database.
// Returns store.ErrDuplicateEmail if the email is already registered.
func (s *PostgresStore) CreateUser(ctx context.Context, arg store.CreateUserParams) (*models.User, error) {
	log.Printf("[PostgresStore] CreateUser called for: %s", arg.Email)
	query := `
		INSERT INTO users (email, hashed_password, first_name, last_name, major, minor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRow(ctx, query,
		arg.Email,
		arg.HashedPassword,
		arg.FirstName, // pgx handles *string to NULL automatically
		arg.LastName,
		arg.Major,
		arg.Minor,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			log.Printf("WARN [PostgresStore] CreateUser: email %s already registered", arg.Email)
			return nil, store.ErrDuplicateEmail
		}
		log.Printf("ERROR [PostgresStore] CreateUser: Failed to insert user %s: %v", arg.Email, err)
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	log.Printf("[PostgresStore] CreateUser: Successfully inserted user ID %d for email %s", user.ID, user.Email)
	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByEmail: Failed to query/scan user for email %s: %v", email, err)
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by id.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByID: Failed to query/scan user %d: %v", id, err)
		return nil, fmt.Errorf("database error fetching user by id: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of arg. Empty strings are stored as NULL.
func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, arg store.UpdateUserParams) (*models.User, error) {
	setClauses := []string{}
	args := []any{}
	argID := 1

	for _, f := range []struct {
		column string
		value  *string
	}{
		{"first_name", arg.FirstName},
		{"last_name", arg.LastName},
		{"major", arg.Major},
		{"minor", arg.Minor},
	} {
		if f.value == nil {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = NULLIF($%d, '')", f.column, argID))
		args = append(args, *f.value)
		argID++
	}

	if len(setClauses) == 0 {
		return s.GetUserByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`-- name: UpdateUser :one
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "),
		argID,
	)

	user, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] UpdateUser: Failed to update user %d: %v", id, err)
		return nil, fmt.Errorf("database error updating user: %w", err)
	}

	log.Printf("[PostgresStore] UpdateUser: updated %d field(s) for user ID %d", len(setClauses)-1, id)
	return user, nil
}

// likeEscaper makes user input literal inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchUsersByEmail returns users whose email contains query, newest first.
func (s *PostgresStore) SearchUsersByEmail(ctx context.Context, query string, limit int) ([]models.User, error) {
	sql := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email LIKE '%' || $1 || '%'
		ORDER BY id DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, sql, likeEscaper.Replace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
