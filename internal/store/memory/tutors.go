package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"

	"github.com/samber/lo"
)

func (s *MemoryStore) CreateSubject(_ context.Context, name string) (*models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if _, taken := s.subjectNames[key]; taken {
		return nil, store.ErrDuplicateSubject
	}
	s.nextSubjectID++
	subject := models.Subject{ID: s.nextSubjectID, Name: name}
	s.subjects[subject.ID] = subject
	s.subjectNames[key] = subject.ID
	return &subject, nil
}

func (s *MemoryStore) GetSubjectByName(_ context.Context, name string) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.subjectNames[strings.ToLower(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	subject := s.subjects[id]
	return &subject, nil
}

func (s *MemoryStore) ListSubjects(_ context.Context, limit int) ([]models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := lo.Values(s.subjects)
	slices.SortFunc(subjects, func(a, b models.Subject) int {
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(subjects) > limit {
		subjects = subjects[:limit]
	}
	return subjects, nil
}

// CreateTutorApplication adds the course and the pending entry under one lock,
// so neither is visible without the other.
func (s *MemoryStore) CreateTutorApplication(_ context.Context, arg store.CreateTutorApplicationParams) (*models.TutorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.TutorID]; !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := s.subjects[arg.SubjectID]; !ok {
		return nil, store.ErrNotFound
	}

	s.nextCourseID++
	course := models.Course{
		ID:        s.nextCourseID,
		SubjectID: arg.SubjectID,
		ClassNum:  arg.ClassNum,
		Name:      arg.CourseTitle,
	}
	s.courses[course.ID] = course

	s.nextEntryID++
	entry := models.TutorEntry{
		ID:        s.nextEntryID,
		TutorID:   arg.TutorID,
		CourseID:  course.ID,
		Status:    models.TutorStatusPending,
		CreatedAt: s.now(),
	}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (s *MemoryStore) SetTutorEntryStatus(_ context.Context, entryID int64, status string) (*models.TutorEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, ok := lo.FindIndexOf(s.entries, func(e models.TutorEntry) bool { return e.ID == entryID })
	if !ok {
		return nil, store.ErrNotFound
	}
	s.entries[i].Status = status
	entry := s.entries[i]
	return &entry, nil
}

func (s *MemoryStore) SearchTutors(_ context.Context, arg store.SearchTutorsParams) ([]models.TutorListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(arg.Query))
	contains := func(fields ...string) bool {
		return query == "" || lo.SomeBy(fields, func(f string) bool {
			return strings.Contains(strings.ToLower(f), query)
		})
	}

	var listings []models.TutorListing
	for _, e := range s.entries {
		if e.Status != models.TutorStatusApproved {
			continue
		}
		tutor := s.users[e.TutorID]
		course := s.courses[e.CourseID]
		subject := s.subjects[course.SubjectID]

		var match bool
		switch arg.Field {
		case store.SearchBySubject:
			match = contains(subject.Name)
		default:
			match = contains(lo.FromPtr(tutor.FirstName), lo.FromPtr(tutor.LastName), course.Name, course.ClassNum)
		}
		if !match {
			continue
		}

		listings = append(listings, models.TutorListing{
			EntryID:     e.ID,
			TutorID:     tutor.ID,
			FirstName:   tutor.FirstName,
			LastName:    tutor.LastName,
			Email:       tutor.Email,
			CourseName:  course.Name,
			ClassNum:    course.ClassNum,
			SubjectName: subject.Name,
		})
		if arg.Limit > 0 && len(listings) == arg.Limit {
			break
		}
	}
	return listings, nil
}
