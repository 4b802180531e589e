package client

import (
	"context"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/mdouchement/dma/internal/client/app"
	"github.com/mdouchement/dma/pkg/libdma"
	"github.com/pkg/errors"
)

// A Config holds client's configuration read from the environment.
type Config struct {
	APIURL           string `env:"DMA_API_URL" envDefault:"http://localhost:3000/api"`
	GoogleClientID   string `env:"DMA_GOOGLE_CLIENT_ID"`
	VerifyCredential bool   `env:"DMA_VERIFY_CREDENTIAL" envDefault:"false"`
	Passphrase       string `env:"DMA_PASSPHRASE"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "could not parse environment")
	}
	return cfg, nil
}

// Identifier returns how federated credentials are turned into identities.
// Signatures are only checked when DMA_VERIFY_CREDENTIAL is set.
func (c Config) Identifier() app.Identifier {
	if !c.VerifyCredential {
		return libdma.DecodeCredential
	}

	return func(credential string) (libdma.Identity, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return libdma.VerifyCredential(ctx, credential, c.GoogleClientID)
	}
}
