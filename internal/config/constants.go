package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./grantscope.db"

	// DefaultDatasetPath is the default path for the static projects dataset
	DefaultDatasetPath = "./data/projects.json"

	// AuthCookieName is the cookie that carries the plaintext session token.
	// Only the SHA-256 digest of the value is ever persisted.
	AuthCookieName = "auth_token"
)
