package casbinAuthorization

import (
	"encoding/json"
	"net/http"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"

	"github.com/DaneshVerma/CitySettel/authorization"
	"github.com/DaneshVerma/CitySettel/errors"
)

const unauthenticatedRole = "Unauthenticated"

// RoleMiddleware enforces the role policy over (role, path, method). The role
// comes from the request credential; requests without one are enforced as
// Unauthenticated so public routes still pass.
func RoleMiddleware(enforcer *casbin.Enforcer, manager *authorization.TokenManager, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(writer http.ResponseWriter, req *http.Request) {
			role := extractRole(req, manager)

			res, err := enforcer.EnforceSafe(role, req.URL.Path, req.Method)
			if err != nil {
				logger.WithError(err).Error("enforcing authorization policy")
				writeMessage(writer, http.StatusUnauthorized, errors.Unauthorized)
				return
			}

			if !res {
				if role == unauthenticatedRole {
					logger.WithField("path", req.URL.Path).Warn("unauthenticated access attempt")
					writeMessage(writer, http.StatusUnauthorized, errors.Unauthorized)
					return
				}
				logger.WithFields(logrus.Fields{"role": role, "path": req.URL.Path}).Warn("forbidden access attempt")
				writeMessage(writer, http.StatusForbidden, errors.Forbidden)
				return
			}

			next.ServeHTTP(writer, req)
		}

		return http.HandlerFunc(fn)
	}
}

func extractRole(req *http.Request, manager *authorization.TokenManager) string {
	tokenString := authorization.ExtractToken(req)
	if tokenString == "" {
		return unauthenticatedRole
	}

	claims, err := manager.Verify(tokenString)
	if err != nil {
		return unauthenticatedRole
	}
	return string(claims.Role)
}

func writeMessage(writer http.ResponseWriter, status int, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{"message": message})
}
