package libdma_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/idtoken"
)

func credential(claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-google"))
	if err != nil {
		panic(err)
	}
	return token
}

func TestDecodeCredential(t *testing.T) {
	identity, err := libdma.DecodeCredential(credential(jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"sub":   "110169484474386276334",
		"name":  "George Abitbol",
		"email": "george.abitbol@nowhere.lan",
	}))
	assert.NoError(t, err)
	assert.Equal(t, libdma.Identity{
		Subject: "110169484474386276334",
		Name:    "George Abitbol",
		Email:   "george.abitbol@nowhere.lan",
	}, identity)

	identity, err = libdma.DecodeCredential(credential(jwt.MapClaims{
		"sub":   "110169484474386276334",
		"email": "george.abitbol@nowhere.lan",
	}))
	assert.NoError(t, err)
	assert.Equal(t, "george.abitbol@nowhere.lan", identity.Name)

	identity, err = libdma.DecodeCredential(credential(jwt.MapClaims{"sub": "110169484474386276334"}))
	assert.NoError(t, err)
	assert.Equal(t, "110169484474386276334", identity.Name)

	_, err = libdma.DecodeCredential(credential(jwt.MapClaims{"iss": "https://accounts.google.com"}))
	assert.Equal(t, libdma.ErrNoDisplayName, err)

	_, err = libdma.DecodeCredential("not-a-jwt")
	assert.Error(t, err)
}

func TestVerifyCredential(t *testing.T) {
	restore := libdma.StubValidator(func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		if audience != "client-id.apps.googleusercontent.com" {
			return nil, errors.New("audience provided does not match aud claim in the JWT")
		}
		return &idtoken.Payload{
			Subject: "110169484474386276334",
			Claims: map[string]any{
				"name": "George Abitbol",
			},
		}, nil
	})
	defer restore()

	identity, err := libdma.VerifyCredential(context.Background(), "token", "client-id.apps.googleusercontent.com")
	assert.NoError(t, err)
	assert.Equal(t, libdma.Identity{
		Subject:  "110169484474386276334",
		Name:     "George Abitbol",
		Verified: true,
	}, identity)

	_, err = libdma.VerifyCredential(context.Background(), "token", "other-client-id")
	assert.EqualError(t, err, "could not verify credential: audience provided does not match aud claim in the JWT")

	_, err = libdma.VerifyCredential(context.Background(), "token", "")
	assert.EqualError(t, err, "could not verify credential without client id")
}
