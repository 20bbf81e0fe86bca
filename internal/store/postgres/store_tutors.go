package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Tutor Catalog Methods ---

func (s *PostgresStore) CreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	query := `INSERT INTO subjects (name) VALUES ($1) RETURNING id, name`

	var subject models.Subject
	err := s.db.QueryRow(ctx, query, name).Scan(&subject.ID, &subject.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			log.Printf("WARN [PostgresStore] CreateSubject: duplicate subject %q", name)
			return nil, store.ErrDuplicateSubject
		}
		log.Printf("ERROR [PostgresStore] CreateSubject: Failed to insert subject %q: %v", name, err)
		return nil, fmt.Errorf("database error creating subject: %w", err)
	}

	log.Printf("[PostgresStore] CreateSubject: created subject ID %d (%s)", subject.ID, subject.Name)
	return &subject, nil
}

func (s *PostgresStore) GetSubjectByName(ctx context.Context, name string) (*models.Subject, error) {
	query := `SELECT id, name FROM subjects WHERE lower(name) = lower($1)`

	var subject models.Subject
	err := s.db.QueryRow(ctx, query, name).Scan(&subject.ID, &subject.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error getting subject by name: %w", err)
	}
	return &subject, nil
}

func (s *PostgresStore) ListSubjects(ctx context.Context, limit int) ([]models.Subject, error) {
	query := `SELECT id, name FROM subjects ORDER BY id DESC LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListSubjects: query failed: %v", err)
		return nil, fmt.Errorf("database error listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name); err != nil {
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}
	return subjects, nil
}

const insertCourse = `-- name: InsertCourse :one
INSERT INTO courses (subject_id, class_num, name)
VALUES ($1, $2, $3)
RETURNING id;
`

const insertTutorEntry = `-- name: InsertTutorEntry :one
INSERT INTO tutor_entries (tutor_id, course_id)
VALUES ($1, $2)
RETURNING id, tutor_id, course_id, status, created_at;
`

func (s *PostgresStore) CreateTutorApplication(ctx context.Context, arg store.CreateTutorApplicationParams) (*models.TutorEntry, error) {
	var entry models.TutorEntry
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var courseID int64
		if err := tx.QueryRow(ctx, insertCourse, arg.SubjectID, arg.ClassNum, arg.CourseTitle).Scan(&courseID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, insertTutorEntry, arg.TutorID, courseID).Scan(
			&entry.ID,
			&entry.TutorID,
			&entry.CourseID,
			&entry.Status,
			&entry.CreatedAt,
		)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			log.Printf("WARN [PostgresStore] CreateTutorApplication: unknown tutor %d or subject %d", arg.TutorID, arg.SubjectID)
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] CreateTutorApplication: Failed for tutor %d: %v", arg.TutorID, err)
		return nil, fmt.Errorf("database error creating tutor application: %w", err)
	}

	log.Printf("[PostgresStore] CreateTutorApplication: entry ID %d pending for tutor %d", entry.ID, entry.TutorID)
	return &entry, nil
}

func (s *PostgresStore) SetTutorEntryStatus(ctx context.Context, entryID int64, status string) (*models.TutorEntry, error) {
	query := `
		UPDATE tutor_entries SET status = $2 WHERE id = $1
		RETURNING id, tutor_id, course_id, status, created_at`

	var entry models.TutorEntry
	err := s.db.QueryRow(ctx, query, entryID, status).Scan(
		&entry.ID,
		&entry.TutorID,
		&entry.CourseID,
		&entry.Status,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] SetTutorEntryStatus: Failed for entry %d: %v", entryID, err)
		return nil, fmt.Errorf("database error updating tutor entry: %w", err)
	}

	log.Printf("[PostgresStore] SetTutorEntryStatus: entry ID %d is now %s", entry.ID, entry.Status)
	return &entry, nil
}

const searchTutorsSelect = `
SELECT te.id, u.id, u.first_name, u.last_name, u.email, c.name, c.class_num, sub.name
FROM tutor_entries te
JOIN users u ON u.id = te.tutor_id
JOIN courses c ON c.id = te.course_id
JOIN subjects sub ON sub.id = c.subject_id
WHERE te.status = 'approved' AND `

const byTutorOrCourse = `(u.first_name ILIKE '%' || $1 || '%'
    OR u.last_name ILIKE '%' || $1 || '%'
    OR c.name ILIKE '%' || $1 || '%'
    OR c.class_num ILIKE '%' || $1 || '%')`

const bySubject = `sub.name ILIKE '%' || $1 || '%'`

func (s *PostgresStore) SearchTutors(ctx context.Context, arg store.SearchTutorsParams) ([]models.TutorListing, error) {
	filter := byTutorOrCourse
	if arg.Field == store.SearchBySubject {
		filter = bySubject
	}
	query := searchTutorsSelect + filter + `
ORDER BY te.id ASC
LIMIT $2`

	rows, err := s.db.Query(ctx, query, likeEscaper.Replace(arg.Query), arg.Limit)
	if err != nil {
		log.Printf("ERROR [PostgresStore] SearchTutors: query failed: %v", err)
		return nil, fmt.Errorf("database error searching tutors: %w", err)
	}
	defer rows.Close()

	var listings []models.TutorListing
	for rows.Next() {
		var l models.TutorListing
		err := rows.Scan(
			&l.EntryID,
			&l.TutorID,
			&l.FirstName,
			&l.LastName,
			&l.Email,
			&l.CourseName,
			&l.ClassNum,
			&l.SubjectName,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning tutor listing row: %w", err)
		}
		listings = append(listings, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tutor listing rows: %w", err)
	}
	return listings, nil
}
