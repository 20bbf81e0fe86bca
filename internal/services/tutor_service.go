package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	// maxCatalogResults caps the subject list and each tutor search.
	maxCatalogResults = 50
	maxSubjectLength  = 100
)

// TutorService manages the subject catalog, tutor applications and the public
// tutor search. Only approved entries are ever returned by a search.
type TutorService struct {
	store store.Store
}

func NewTutorService(s store.Store) *TutorService {
	return &TutorService{store: s}
}

// ListSubjects returns the newest subjects first.
func (s *TutorService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.store.ListSubjects(ctx, maxCatalogResults)
	if err != nil {
		return nil, unavailable("list subjects", err)
	}
	return subjects, nil
}

// AddSubject creates a catalog subject. Names are unique ignoring case.
func (s *TutorService) AddSubject(ctx context.Context, name string) (*models.Subject, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: subject name cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxSubjectLength {
		return nil, fmt.Errorf("%w: subject name exceeds %d characters", ErrValidation, maxSubjectLength)
	}

	subject, err := s.store.CreateSubject(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSubject) {
			return nil, ErrSubjectExists
		}
		return nil, unavailable("create subject", err)
	}
	log.Printf("[TutorService] AddSubject: added %q (ID: %d)", subject.Name, subject.ID)
	return subject, nil
}

// ApplyParams describes one course the caller offers to tutor.
type ApplyParams struct {
	Subject     string
	ClassNum    string
	CourseTitle string
}

// Apply files a pending tutor entry for the caller. The entry stays invisible to
// searches until it is approved.
func (s *TutorService) Apply(ctx context.Context, caller auth.Identity, p ApplyParams) (*models.TutorEntry, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	p.Subject = strings.TrimSpace(p.Subject)
	p.ClassNum = strings.TrimSpace(p.ClassNum)
	p.CourseTitle = strings.TrimSpace(p.CourseTitle)
	if p.Subject == "" || p.ClassNum == "" || p.CourseTitle == "" {
		return nil, fmt.Errorf("%w: subject, class number and course title are required", ErrValidation)
	}

	subject, err := s.store.GetSubjectByName(ctx, p.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrSubjectNotFound, p.Subject)
		}
		return nil, unavailable("get subject", err)
	}

	entry, err := s.store.CreateTutorApplication(ctx, store.CreateTutorApplicationParams{
		TutorID:     caller.UserID,
		SubjectID:   subject.ID,
		ClassNum:    p.ClassNum,
		CourseTitle: p.CourseTitle,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRecipientOrSenderNotFound
		}
		log.Printf("ERROR [TutorService] Apply: user %d: %v", caller.UserID, err)
		return nil, unavailable("create tutor application", err)
	}

	log.Printf("[TutorService] Apply: entry %d pending for user %d (%s %s)", entry.ID, caller.UserID, subject.Name, p.ClassNum)
	return entry, nil
}

// SetStatus moves a tutor entry to pending, approved or rejected.
func (s *TutorService) SetStatus(ctx context.Context, entryID int64, status string) (*models.TutorEntry, error) {
	if !lo.Contains([]string{models.TutorStatusPending, models.TutorStatusApproved, models.TutorStatusRejected}, status) {
		return nil, fmt.Errorf("%w: unknown tutor status %q", ErrValidation, status)
	}
	entry, err := s.store.SetTutorEntryStatus(ctx, entryID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTutorEntryNotFound
		}
		return nil, unavailable("set tutor entry status", err)
	}
	log.Printf("[TutorService] SetStatus: entry %d is now %s", entry.ID, entry.Status)
	return entry, nil
}

// SearchTutors matches tutor names, course names and class numbers.
func (s *TutorService) SearchTutors(ctx context.Context, query string) ([]models.TutorListing, error) {
	return s.search(ctx, query, store.SearchByTutorOrCourse)
}

// SearchBySubject matches subject names.
func (s *TutorService) SearchBySubject(ctx context.Context, query string) ([]models.TutorListing, error) {
	return s.search(ctx, query, store.SearchBySubject)
}

func (s *TutorService) search(ctx context.Context, query string, field store.TutorSearchField) ([]models.TutorListing, error) {
	listings, err := s.store.SearchTutors(ctx, store.SearchTutorsParams{
		Query: strings.TrimSpace(query),
		Field: field,
		Limit: maxCatalogResults,
	})
	if err != nil {
		return nil, unavailable("search tutors", err)
	}
	return listings, nil
}
