package libdma

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// ErrNoDisplayName is returned when a credential does not carry any usable display name.
var ErrNoDisplayName = errors.New("credential does not contain a display name")

// validate is the Google ID token validator, replaced in tests.
var validate = idtoken.Validate

// An Identity is the user described by a federated sign-in credential.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	// Verified is true when the credential signature, issuer and audience have been checked.
	Verified bool `json:"verified"`
}

// DecodeCredential extracts the identity from the given credential (a Google ID token).
//
// The signature is NOT verified: anyone can forge a credential with an arbitrary name.
// Use VerifyCredential when the identity must be trusted.
func DecodeCredential(credential string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(credential), claims)
	if err != nil {
		return Identity{}, errors.Wrap(err, "could not decode credential")
	}

	return identityFromClaims(claims, false)
}

// VerifyCredential validates the given credential against Google's public keys and the given audience (OAuth client id),
// and then extracts the identity.
func VerifyCredential(ctx context.Context, credential, audience string) (Identity, error) {
	if audience == "" {
		return Identity{}, errors.New("could not verify credential without client id")
	}

	payload, err := validate(ctx, strings.TrimSpace(credential), audience)
	if err != nil {
		return Identity{}, errors.Wrap(err, "could not verify credential")
	}

	claims := payload.Claims
	if claims == nil {
		claims = map[string]any{}
	}
	if _, ok := claims["sub"]; !ok {
		claims["sub"] = payload.Subject
	}
	return identityFromClaims(claims, true)
}

func identityFromClaims(claims map[string]any, verified bool) (Identity, error) {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return strings.TrimSpace(v)
	}

	identity := Identity{
		Subject:  str("sub"),
		Name:     str("name"),
		Email:    str("email"),
		Verified: verified,
	}

	switch {
	case identity.Name != "":
	case identity.Email != "":
		identity.Name = identity.Email
	case identity.Subject != "":
		identity.Name = identity.Subject
	default:
		return identity, ErrNoDisplayName
	}

	return identity, nil
}
