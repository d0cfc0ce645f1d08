package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andrewpaige1/memora/auth"
	"github.com/andrewpaige1/memora/utils"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// CustomClaims are the non-registered claims of a memora access token.
type CustomClaims struct {
	Email string `json:"email"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken validates bearer tokens signed by issuer. Requests without
// a token pass through with no claims so public routes keep working; a
// present but invalid token is rejected with 401.
func EnsureValidToken(issuer *auth.TokenIssuer) (func(http.Handler) http.Handler, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return issuer.Secret(), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer.Issuer(),
		[]string{issuer.Audience()},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		slog.WarnContext(r.Context(), "EnsureValidToken: rejected token", "error", err, "path", r.URL.Path)
		utils.WriteError(w, http.StatusUnauthorized, "Failed to validate JWT")
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}
