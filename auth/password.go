package auth

// This file implements the credential service: one-way password hashing with
// Argon2id. The encoded hash embeds its own salt and parameters
// ($argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>), so stored
// credentials are never recoverable from the persisted record and parameters
// can be raised later without invalidating existing hashes.

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonVersion     = 19 // argon2.Version is 0x13 (19)
	argonMemoryKiB   = 64 * 1024
	argonIterations  = 3
	argonParallelism = 2
	argonSaltLength  = 16
	argonKeyLength   = 32
)

// ErrInvalidHash indicates a stored hash that is malformed or uses an
// unsupported scheme. Verification treats it as a mismatch.
var ErrInvalidHash = errors.New("invalid password hash")

// HashPassword hashes a plaintext password with Argon2id and returns the
// encoded hash string.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonIterations, argonMemoryKiB, argonParallelism, argonKeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonVersion,
		argonMemoryKiB,
		argonIterations,
		argonParallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// It never returns an error to the caller: a mismatch and a malformed hash
// both verify as false. The comparison is constant-time.
func VerifyPassword(password, encodedHash string) bool {
	iterations, memory, parallelism, salt, expected, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// decodeHash parses the encoded hash and returns its parameters, salt and
// expected key. The parameters embedded in the hash, not the current
// constants, drive verification so older hashes keep verifying.
func decodeHash(encoded string) (iterations, memory uint32, parallelism uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argonVersion) {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	var mem, iter, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err = b64.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	hash, err = b64.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	if len(salt) < 8 || len(hash) < 16 {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	return iter, mem, uint8(par), salt, hash, nil
}
