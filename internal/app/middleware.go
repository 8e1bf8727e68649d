package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/khata-app/khata/internal/config"
	"github.com/khata-app/khata/internal/rest"
	"github.com/khata-app/khata/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resolve the request owner: X-User-Id header when present, otherwise the
	// seeded default user. Every downstream operation reads the owner from
	// the context.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			userIdHeader := req.Header.Get("X-User-Id")

			if userIdHeader != "" {
				u, err := deps.UserService.GetUserByUid(ctx, userIdHeader)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", userIdHeader)
						rest.RespondError(w, http.StatusForbidden, "user not found")
						return
					}
					log.Errorf("failed to get user: %v", err)
					rest.RespondError(w, http.StatusBadRequest, err.Error())
					return
				}
				ctx = user.WithUser(ctx, u)
			} else {
				u, err := deps.UserService.GetDefaultUser(ctx)
				if err != nil {
					log.Errorf("failed to get default user: %v", err)
					rest.RespondError(w, http.StatusInternalServerError, "failed to resolve request owner")
					return
				}
				ctx = user.WithUser(ctx, u)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
