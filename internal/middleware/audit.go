package middleware

import (
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Audit records every successful mutation of machines, tickets and users.
// Mount it after JWTMiddleware on routed (inline) handlers so the {id} URL
// parameter is resolved. Create handlers must answer 201 with a Location
// header ending in the new id.
//
// Requests that cannot be attributed (no actor, unknown resource, no id) pass
// through unaudited. The row is read back before the response is flushed;
// only the record write runs after it.
func Audit(p *audit.Pipeline) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, ok := audit.ActionForMethod(r.Method)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			scope := audit.Scope{Action: action, RequestID: chimw.GetReqID(ctx)}
			scope.Resource, _ = models.ParseResource(firstSegment(r.URL.Path))
			if id, err := strconv.Atoi(chi.URLParam(r, "id")); err == nil {
				scope.ResourceID = id
			}
			if actor, ok := ActorFromContext(ctx); ok {
				scope.Actor = &actor
			}

			trail, ok := p.Begin(ctx, scope)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			sw := newStatusRecorder(w)
			next.ServeHTTP(sw, r)
			if sw.status < 200 || sw.status > 299 {
				return
			}

			if action == models.ActionCreate {
				id, ok := idFromLocation(sw.Header().Get("Location"))
				if !ok {
					slog.Warn("audit skipped: create response has no resource id",
						"request_id", scope.RequestID, "resource", scope.Resource)
					return
				}
				trail = trail.WithResourceID(id)
			}

			// Read the row back before the client sees the response and can change it again.
			trail = p.Seal(ctx, trail)
			sw.Flush()
			p.Finish(ctx, trail)
		})
	}
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// idFromLocation reads the trailing id of a Location header such as /tickets/42.
func idFromLocation(loc string) (int, bool) {
	if loc == "" {
		return 0, false
	}
	id, err := strconv.Atoi(path.Base(loc))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
