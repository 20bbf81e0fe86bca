package handlers

import (
	"context"
	"errors"
	"net/http"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/services"
	"tutorhub-backend/pkg/httputil"

	"github.com/samber/lo"
)

// TutorService defines the catalog and search operations used by the handlers.
type TutorService interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	Apply(ctx context.Context, caller auth.Identity, p services.ApplyParams) (*models.TutorEntry, error)
	SearchTutors(ctx context.Context, query string) ([]models.TutorListing, error)
	SearchBySubject(ctx context.Context, query string) ([]models.TutorListing, error)
}

type TutorHandlers struct {
	tutors TutorService
}

func NewTutorHandlers(tutors TutorService) *TutorHandlers {
	return &TutorHandlers{tutors: tutors}
}

// HandleListSubjects handles GET /v1/subjects.
func (h *TutorHandlers) HandleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.tutors.ListSubjects(r.Context())
	if err != nil {
		respondServiceError(w, "ListSubjects", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, lo.Map(subjects, func(s models.Subject, _ int) models.SubjectResponse {
		return models.SubjectResponse{ID: s.ID, Name: s.Name}
	}))
}

// HandleApply handles POST /v1/tutors/applications.
func (h *TutorHandlers) HandleApply(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req models.TutorApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.tutors.Apply(r.Context(), caller, services.ApplyParams{
		Subject:     req.Subject,
		ClassNum:    req.ClassNum,
		CourseTitle: req.CourseTitle,
	})
	if err != nil {
		if errors.Is(err, services.ErrSubjectNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondServiceError(w, "ApplyAsTutor", err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, models.TutorApplicationResponse{
		TutorEntryID: entry.ID,
		Status:       entry.Status,
	})
}

// HandleSearchTutors handles GET /v1/search/tutors?q=.
func (h *TutorHandlers) HandleSearchTutors(w http.ResponseWriter, r *http.Request) {
	listings, err := h.tutors.SearchTutors(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, "SearchTutors", err)
		return
	}
	respondListings(w, listings)
}

// HandleSearchBySubject handles GET /v1/search/tutors/by-subject?q=.
func (h *TutorHandlers) HandleSearchBySubject(w http.ResponseWriter, r *http.Request) {
	listings, err := h.tutors.SearchBySubject(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, "SearchBySubject", err)
		return
	}
	respondListings(w, listings)
}

func respondListings(w http.ResponseWriter, listings []models.TutorListing) {
	resp := make([]models.TutorListingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, models.NewTutorListingResponse(l))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}
