package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/services"
	"tutorhub-backend/pkg/httputil"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, describeValidation(err))
		return false
	}
	return true
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request payload"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

// callerIdentity extracts the identity placed on the context by the JWT middleware.
func callerIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, services.ErrUnauthenticated.Error())
		return auth.Identity{}, false
	}
	return id, true
}

// respondServiceError maps the service error kinds to HTTP statuses.
// Store details stay in the log and are never sent to the client.
func respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		httputil.RespondError(w, http.StatusUnauthorized, services.ErrUnauthenticated.Error())
	case errors.Is(err, services.ErrRecipientOrSenderNotFound):
		httputil.RespondError(w, http.StatusNotFound, services.ErrRecipientOrSenderNotFound.Error())
	case errors.Is(err, services.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrStoreUnavailable):
		log.Printf("ERROR %s: %v", op, err)
		httputil.RespondError(w, http.StatusServiceUnavailable, services.ErrStoreUnavailable.Error())
	default:
		log.Printf("ERROR %s: unexpected error: %v", op, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
