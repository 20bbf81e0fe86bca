package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is idempotent and safe to run on every deploy.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id              BIGSERIAL PRIMARY KEY,
    email           TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL,
    first_name      TEXT,
    last_name       TEXT,
    major           TEXT,
    minor           TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Append-only: the application never issues UPDATE or DELETE against messages.
CREATE TABLE IF NOT EXISTS messages (
    id          BIGSERIAL PRIMARY KEY,
    sender_id   BIGINT NOT NULL REFERENCES users(id),
    receiver_id BIGINT NOT NULL REFERENCES users(id),
    body        TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
    CONSTRAINT messages_body_not_blank CHECK (body ~ '\S'),
    CONSTRAINT messages_distinct_participants CHECK (sender_id <> receiver_id)
);

CREATE INDEX IF NOT EXISTS idx_messages_sender_receiver
    ON messages (sender_id, receiver_id, created_at, id);
CREATE INDEX IF NOT EXISTS idx_messages_receiver_sender
    ON messages (receiver_id, sender_id, created_at, id);
CREATE INDEX IF NOT EXISTS idx_messages_pair
    ON messages (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id), id DESC);

CREATE TABLE IF NOT EXISTS subjects (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL CHECK (name ~ '\S')
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_subjects_name ON subjects (lower(name));

CREATE TABLE IF NOT EXISTS courses (
    id         BIGSERIAL PRIMARY KEY,
    subject_id BIGINT NOT NULL REFERENCES subjects(id),
    class_num  TEXT NOT NULL,
    name       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tutor_entries (
    id         BIGSERIAL PRIMARY KEY,
    tutor_id   BIGINT NOT NULL REFERENCES users(id),
    course_id  BIGINT NOT NULL REFERENCES courses(id),
    status     TEXT NOT NULL DEFAULT 'pending'
               CHECK (status IN ('pending', 'approved', 'rejected')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tutor_entries_status ON tutor_entries (status, id);
`

// Migrate creates the tables and indexes if they do not exist.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("[PostgresStore] Running migrations...")
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("[PostgresStore] Migrations complete.")
	return nil
}
