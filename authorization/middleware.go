package authorization

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

type UserKey struct{}

// UserFromContext returns the authenticated identity attached by the
// Authenticate middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey{}).(*domain.User)
	return user, ok
}

// Authenticate resolves the request credential to an existing user and
// attaches it to the request context. Requests without a resolvable
// credential are rejected before reaching the handler.
func Authenticate(manager *TokenManager, users domain.UserStore, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			tokenString := ExtractToken(req)
			if tokenString == "" {
				writeMessage(writer, http.StatusUnauthorized, errors.Unauthorized)
				return
			}

			claims, err := manager.Verify(tokenString)
			if err != nil {
				logger.WithError(err).Warn("rejected credential")
				writeMessage(writer, http.StatusUnauthorized, errors.Unauthorized)
				return
			}

			user, err := users.Get(req.Context(), claims.UserID)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					writeMessage(writer, http.StatusNotFound, errors.UserNotFound)
					return
				}
				logger.WithError(err).Error("loading authenticated user")
				writeMessage(writer, http.StatusInternalServerError, errors.InternalServerError)
				return
			}

			ctx := context.WithValue(req.Context(), UserKey{}, user)
			next.ServeHTTP(writer, req.WithContext(ctx))
		})
	}
}

// writeMessage keeps gate rejections in the same JSON envelope the handlers
// answer with.
func writeMessage(writer http.ResponseWriter, status int, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{"message": message})
}
