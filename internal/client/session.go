package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	sargon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltKeyLength = 16
	sessionfile   = ".dma"
)

// A Session holds the signed-in identity, stored sealed in the current directory.
type Session struct {
	Endpoint   string `json:"endpoint"`
	Username   string `json:"username"`
	Guest      bool   `json:"guest"`
	Credential string `json:"credential,omitempty"`
}

// RemoveSession removes the session file from the current directory.
// A missing session file is not an error.
func RemoveSession() error {
	return removeSession(sessionfile)
}

func removeSession(filename string) error {
	if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "could not remove session file")
	}
	return nil
}

// LoadSession gets the session from the current folder according to `sessionfile` const.
func LoadSession(cfg Config) (Session, error) {
	return loadSession(sessionfile, cfg)
}

// SaveSession stores the session in the current folder according to `sessionfile` const.
func SaveSession(cfg Config, s Session) error {
	return saveSession(sessionfile, cfg, s)
}

func loadSession(filename string, cfg Config) (Session, error) {
	fmt.Fprintln(os.Stderr, "Loading session from "+filename)

	ciphertext, err := os.ReadFile(filename)
	if err != nil {
		return Session{}, errors.Wrap(err, "could not read session file (login first)")
	}

	passphrase, err := readPassphrase(cfg)
	if err != nil {
		return Session{}, err
	}

	return Unseal(ciphertext, passphrase)
}

func saveSession(filename string, cfg Config, s Session) error {
	fmt.Fprintln(os.Stderr, "Storing session in current directory as "+filename)

	passphrase, err := readPassphrase(cfg)
	if err != nil {
		return err
	}

	ciphertext, err := Seal(s, passphrase)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", filename)
	}
	defer f.Close()

	_, err = f.Write(ciphertext)
	if err != nil {
		return errors.Wrap(err, "could not store session")
	}

	return errors.Wrap(f.Sync(), "could not store session")
}

func readPassphrase(cfg Config) ([]byte, error) {
	if cfg.Passphrase != "" {
		return []byte(cfg.Passphrase), nil
	}

	passphrase, err := readline.Password("passphrase: ")
	return passphrase, errors.Wrap(err, "could not read passphrase from stdin")
}

////////////////////
//                //
// Sealing        //
//                //
////////////////////

// Seal encrypts the session with a key derived from the passphrase.
// The result is salt || nonce || ciphertext.
func Seal(s Session, passphrase []byte) ([]byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize session")
	}

	//
	// Key derivation of passphrase

	salt, err := sargon2.GenerateRandomBytes(saltKeyLength)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate salt for session")
	}
	hash := argon2.IDKey(passphrase, salt, 3, 64<<10, 2, 32)

	//
	// Seal session

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}
	nonce, err := sargon2.GenerateRandomBytes(uint32(aead.NonceSize()))
	if err != nil {
		return nil, errors.Wrap(err, "could not generate nonce for session")
	}

	ciphertext := aead.Seal(nil, nonce, payload, nil)
	ciphertext = append(nonce, ciphertext...)
	return append(salt, ciphertext...), nil
}

// Unseal decrypts a session sealed by Seal.
func Unseal(ciphertext, passphrase []byte) (Session, error) {
	var s Session

	if len(ciphertext) < saltKeyLength+chacha20poly1305.NonceSizeX {
		return s, errors.New("could not decrypt session file: file too short")
	}

	//
	// Key derivation of passphrase

	salt := ciphertext[:saltKeyLength]
	ciphertext = ciphertext[saltKeyLength:]
	hash := argon2.IDKey(passphrase, salt, 3, 64<<10, 2, 32)

	//
	// Unseal session

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return s, errors.Wrap(err, "could not create AEAD")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	payload, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return s, errors.Wrap(err, "could not decrypt session file")
	}

	err = json.Unmarshal(payload, &s)
	return s, errors.Wrap(err, "could not parse session")
}
