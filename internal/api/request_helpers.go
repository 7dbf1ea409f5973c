package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
)

// requireUserID extracts the authenticated user's ID placed in the context
// by the auth middleware. It writes a 401 and reports false when absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, shared.MsgUnauthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

// pathTaskID parses the {id} route parameter. A value that is not a
// positive integer cannot name any task and reports false.
func pathTaskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// taskQueryFromRequest reads listing parameters from the query string.
// A page that is not an integer counts as page 1; one too large for int
// is left for TaskQuery.Filter to clamp.
func taskQueryFromRequest(r *http.Request) domain.TaskQuery {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil && !(errors.Is(err, strconv.ErrRange) && page > 0) {
		page = 1
	}
	return domain.TaskQuery{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		DueDateFrom: q.Get("due_date_from"),
		DueDateTo:   q.Get("due_date_to"),
		Sort:        q.Get("sort"),
		Page:        page,
	}
}
