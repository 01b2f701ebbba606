package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	middleware "github.com/oapi-codegen/gin-middleware"
)

type key string

const accessToken key = "access_info"

type Access struct {
	AccessToken string
	Subject     string
}

func FromContext(ctx context.Context) (*Access, bool) {
	t, ok := ctx.Value(string(accessToken)).(*Access)
	return t, ok
}

var (
	ErrNoAuthHeader      = errors.New("Authorization header is missing")
	ErrInvalidAuthHeader = errors.New("Authorization header is malformed")
	ErrTokenInvalid      = errors.New("token failed verification")
)

// GetJWSFromRequest extracts a JWS string from an Authorization: Bearer <jws> header
func GetJWSFromRequest(req *http.Request) (string, error) {
	authHdr := req.Header.Get("Authorization")
	// Check for the Authorization header.
	if authHdr == "" {
		return "", ErrNoAuthHeader
	}
	// We expect a header value of the form "Bearer <token>", with 1 space after
	// Bearer, per RFC 6750.
	prefix := "Bearer "
	if !strings.HasPrefix(authHdr, prefix) {
		return "", ErrInvalidAuthHeader
	}
	return strings.TrimPrefix(authHdr, prefix), nil
}

// NewAuthenticator returns the AuthenticationFunc enforcing bearerAuth on
// the operations that declare it in the OpenAPI document. With an empty
// secret the token is accepted unverified; dev environments run without an
// admin secret.
func NewAuthenticator(secret []byte) openapi3filter.AuthenticationFunc {
	return func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
		// Our security scheme is named bearerAuth, ensure this is the case
		if input.SecuritySchemeName != "bearerAuth" {
			return fmt.Errorf("security scheme %s != 'bearerAuth'", input.SecuritySchemeName)
		}

		jws, err := GetJWSFromRequest(input.RequestValidationInput.Request)
		if err != nil {
			return fmt.Errorf("getting jws: %w", err)
		}

		ac := Access{AccessToken: jws}
		if len(secret) > 0 {
			token, err := jwt.Parse([]byte(jws), jwt.WithVerify(jwa.HS256, secret), jwt.WithValidate(true))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
			}
			ac.Subject = token.Subject()
		}

		// Set the property on the gin context so the handler is able to
		// access the claims data we generate in here.
		eCtx := middleware.GetGinContext(ctx)
		eCtx.Set(string(accessToken), &ac)

		return nil
	}
}
