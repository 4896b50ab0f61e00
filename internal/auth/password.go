package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// HashScheme selects the password hashing algorithm. New hashes always use
// Argon2id; bcrypt is kept so hashes issued before the migration remain
// verifiable without a mass password reset.
type HashScheme int

const (
	SchemeArgon2 HashScheme = iota
	SchemeBcrypt
)

// Argon2id parameters for newly issued hashes (OWASP baseline).
const (
	argon2Memory      uint32 = 19 * 1024 // KiB
	argon2Iterations  uint32 = 2
	argon2Parallelism uint8  = 1
	argon2SaltLength         = 16
	argon2KeyLength   uint32 = 32
)

// argon2Params are the parameters recovered from a stored PHC string.
// Verification always uses the stored parameters, not the current defaults.
type argon2Params struct {
	version     int
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	digest      []byte
}

// parsedHash is the closed set of recognized hash forms. A stored hash is
// parsed exactly once and dispatched on the scheme tag.
type parsedHash struct {
	scheme HashScheme
	argon2 *argon2Params // set when scheme == SchemeArgon2
	bcrypt []byte        // set when scheme == SchemeBcrypt
}

// HashPassword hashes a password under the given scheme with a fresh random
// salt. The returned string self-describes its scheme and parameters.
func HashPassword(password string, scheme HashScheme) (string, error) {
	switch scheme {
	case SchemeArgon2:
		return hashArgon2(password)
	case SchemeBcrypt:
		return hashBcrypt(password)
	default:
		return "", ErrUnknownHashScheme
	}
}

// VerifyPassword checks a password against a stored hash, selecting the
// scheme from the hash's prefix. An unrecognized prefix is a hard error,
// never a silent false.
func VerifyPassword(password, encoded string) (bool, error) {
	parsed, err := parseHash(encoded)
	if err != nil {
		return false, err
	}

	switch parsed.scheme {
	case SchemeArgon2:
		return verifyArgon2(password, parsed.argon2), nil
	case SchemeBcrypt:
		return verifyBcrypt(password, parsed.bcrypt)
	default:
		return false, ErrUnknownHashScheme
	}
}

func parseHash(encoded string) (*parsedHash, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2"):
		params, err := parseArgon2Hash(encoded)
		if err != nil {
			return nil, err
		}
		return &parsedHash{scheme: SchemeArgon2, argon2: params}, nil
	case strings.HasPrefix(encoded, "$2"):
		// bcrypt ($2a$, $2b$, $2y$); the bcrypt package parses the rest.
		return &parsedHash{scheme: SchemeBcrypt, bcrypt: []byte(encoded)}, nil
	default:
		return nil, ErrUnknownHashScheme
	}
}

func hashArgon2(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", &HashError{Op: "hash", Err: err}
	}

	digest := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Iterations,
		argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest))

	return encoded, nil
}

func verifyArgon2(password string, params *argon2Params) bool {
	computed := argon2.IDKey([]byte(password), params.salt, params.iterations, params.memory, params.parallelism, uint32(len(params.digest)))
	return subtle.ConstantTimeCompare(params.digest, computed) == 1
}

func parseArgon2Hash(encoded string) (*argon2Params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 6 segments, got %d", ErrMalformedHash, len(parts))
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("%w: variant %q", ErrUnknownHashScheme, parts[1])
	}

	params := &argon2Params{}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &params.version); err != nil {
		return nil, fmt.Errorf("%w: bad version segment", ErrMalformedHash)
	}
	if params.version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, params.version)
	}

	var parallelism int
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &parallelism); err != nil {
		return nil, fmt.Errorf("%w: bad parameter segment", ErrMalformedHash)
	}
	params.parallelism = uint8(parallelism)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
	}
	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: bad digest encoding", ErrMalformedHash)
	}
	if len(digest) == 0 {
		return nil, fmt.Errorf("%w: empty digest", ErrMalformedHash)
	}

	params.salt = salt
	params.digest = digest
	return params, nil
}

func hashBcrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", &HashError{Op: "hash", Err: err}
	}
	return string(hash), nil
}

func verifyBcrypt(password string, hash []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	// Anything else means the stored hash is unusable, not a wrong password.
	return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
}
