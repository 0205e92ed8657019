package authorization

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v4"

	"github.com/DaneshVerma/CitySettel/domain"
)

// TokenManager signs and verifies the session credential asserting a user
// identity. There is no server-side session table; the token carries the
// user id and role.
type TokenManager struct {
	signer   *jwt.HSAlg
	verifier *jwt.HSAlg
	lifetime time.Duration
}

func NewTokenManager(secret []byte, lifetime time.Duration) (*TokenManager, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	return &TokenManager{
		signer:   signer,
		verifier: verifier,
		lifetime: lifetime,
	}, nil
}

func (manager *TokenManager) Lifetime() time.Duration {
	return manager.lifetime
}

func (manager *TokenManager) Generate(user *domain.User) (string, error) {
	claims := &domain.Claims{
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(manager.lifetime),
	}

	builder := jwt.NewBuilder(manager.signer)
	token, err := builder.Build(claims)
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

func (manager *TokenManager) Verify(tokenString string) (*domain.Claims, error) {
	token, err := jwt.Parse([]byte(tokenString), manager.verifier)
	if err != nil {
		return nil, err
	}

	var claims domain.Claims
	if err := jwt.ParseClaims(token.Bytes(), manager.verifier, &claims); err != nil {
		return nil, err
	}

	if !claims.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}
	return &claims, nil
}

// ExtractToken pulls the credential from the token cookie or, failing that,
// the Authorization bearer header.
func ExtractToken(req *http.Request) string {
	if cookie, err := req.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	bearer := req.Header.Get("Authorization")
	parts := strings.Split(bearer, "Bearer ")
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
