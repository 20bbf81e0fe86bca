package postgres

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"tutorhub-backend/internal/conversation"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Message Methods ---

const appendMessage = `-- name: AppendMessage :one
INSERT INTO messages (sender_id, receiver_id, body)
VALUES ($1, $2, $3)
RETURNING id, created_at;
`

// lockPair serializes appends within one conversation until commit. Without it two
// concurrent inserts for the same pair could draw ids in one order and
// clock_timestamp() values in the other.
const lockPair = `SELECT pg_advisory_xact_lock($1)`

// pairLockKey maps the unordered participant pair to an advisory lock key.
// Collisions between different pairs only cost extra serialization.
func pairLockKey(a, b int64) int64 {
	p := conversation.PairOf(a, b)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(p.Low))
	binary.BigEndian.PutUint64(buf[8:], uint64(p.High))
	h := fnv.New64a()
	h.Write(buf[:])
	return int64(h.Sum64())
}

// AppendMessage inserts one message row inside a transaction holding the pair's
// advisory lock, so within a conversation id order and created_at order agree.
func (s *PostgresStore) AppendMessage(ctx context.Context, senderID, receiverID int64, body string) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	}
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockPair, pairLockKey(senderID, receiverID)); err != nil {
			return fmt.Errorf("acquiring pair lock: %w", err)
		}
		return tx.QueryRow(ctx, appendMessage, senderID, receiverID, body).Scan(&msg.ID, &msg.CreatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				log.Printf("WARN [PostgresStore] AppendMessage: unknown participant (sender %d, receiver %d)", senderID, receiverID)
				return nil, store.ErrNotFound
			case pgCheckViolation:
				log.Printf("WARN [PostgresStore] AppendMessage: check violation %s (sender %d, receiver %d)", pgErr.ConstraintName, senderID, receiverID)
				return nil, store.ErrInvalidMessage
			}
		}
		log.Printf("ERROR [PostgresStore] AppendMessage: Failed to insert message (sender %d, receiver %d): %v", senderID, receiverID, err)
		return nil, fmt.Errorf("database error appending message: %w", err)
	}

	log.Printf("[PostgresStore] AppendMessage: inserted message ID %d (sender %d, receiver %d)", msg.ID, senderID, receiverID)
	return msg, nil
}

const listConversation = `-- name: ListConversation :many
SELECT m.id, m.sender_id, m.receiver_id, m.body, m.created_at,
       u.first_name, u.last_name, u.email
FROM messages AS m
JOIN users AS u ON u.id = m.sender_id
WHERE (m.sender_id = $1 AND m.receiver_id = $2)
   OR (m.sender_id = $2 AND m.receiver_id = $1)
ORDER BY m.created_at ASC, m.id ASC;
`

func (s *PostgresStore) ListConversation(ctx context.Context, a, b int64) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listConversation, a, b)
	if err != nil {
		return nil, fmt.Errorf("error querying conversation: %w", err)
	}
	return collectMessages(rows)
}

const listReceived = `-- name: ListReceived :many
SELECT m.id, m.sender_id, m.receiver_id, m.body, m.created_at,
       u.first_name, u.last_name, u.email
FROM messages AS m
JOIN users AS u ON u.id = m.sender_id
WHERE m.receiver_id = $1
ORDER BY m.created_at ASC, m.id ASC;
`

func (s *PostgresStore) ListReceived(ctx context.Context, userID int64) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listReceived, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying received messages: %w", err)
	}
	return collectMessages(rows)
}

// collectMessages scans rows of (message columns, sender name columns) and closes rows.
func collectMessages(rows pgx.Rows) ([]models.Message, error) {
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		var (
			m           models.Message
			first, last *string
		)
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Body,
			&m.CreatedAt,
			&first,
			&last,
			&m.SenderEmail,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		m.SenderName = models.DisplayName(first, last, m.SenderEmail)
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return items, nil
}

// listInbox groups by the unordered participant pair, keeps MAX(id) per group and
// joins the counterpart (whichever side is not $1) for its current name.
const listInbox = `-- name: ListInbox :many
SELECT m.id, m.body, m.created_at,
       u.id, u.first_name, u.last_name, u.email
FROM messages AS m
JOIN users AS u
  ON u.id = CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
WHERE m.id IN (
    SELECT MAX(id)
    FROM messages
    WHERE sender_id = $1 OR receiver_id = $1
    GROUP BY LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id)
)
ORDER BY m.created_at DESC, m.id DESC;
`

func (s *PostgresStore) ListInbox(ctx context.Context, userID int64) ([]models.InboxEntry, error) {
	rows, err := s.db.Query(ctx, listInbox, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying inbox: %w", err)
	}
	defer rows.Close()

	var entries []models.InboxEntry
	for rows.Next() {
		var (
			e           models.InboxEntry
			first, last *string
		)
		if err := rows.Scan(
			&e.LastMessageID,
			&e.LastMessageBody,
			&e.LastMessageTime,
			&e.CounterpartID,
			&first,
			&last,
			&e.CounterpartEmail,
		); err != nil {
			return nil, fmt.Errorf("error scanning inbox row: %w", err)
		}
		e.CounterpartName = models.DisplayName(first, last, e.CounterpartEmail)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inbox rows: %w", err)
	}
	return entries, nil
}
