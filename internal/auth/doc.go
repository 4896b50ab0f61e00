// Package auth implements account signup, login and session management.
//
// Passwords are hashed with Argon2id; bcrypt hashes issued before the
// migration remain verifiable through the same VerifyPassword entry point,
// which selects the scheme from the stored hash's prefix.
//
// Sessions are opaque 64-character random tokens delivered once in the
// auth_token cookie. The database stores only the SHA-256 digest, so a
// leaked sessions table cannot be replayed against the API. Expiry is
// checked lazily at validation time; the tasks package sweeps expired rows
// in the background.
//
// # Usage
//
// Wire the service and middleware in the entrypoint:
//
//	svc := auth.NewService(userRepo, sessionRepo, cfg.Auth)
//	mw := auth.NewMiddleware(svc)
//	auth.NewAuthController(svc, cfg.Auth).RegisterRoutes(router, mw)
//
// Protected handlers read the identity with:
//
//	userCtx, ok := auth.GetUserCtx(c)
package auth
