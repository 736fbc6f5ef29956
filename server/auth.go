package server

import (
	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/config"
)

// AuthenticatorFromConfig builds the request authenticator: bearer JWTs
// when a signing secret is configured, then the trusted user header.
func AuthenticatorFromConfig(cfg *config.Config) auth.Authenticator {
	admins := cfg.Admins()

	var chain auth.Chain
	if cfg.JWTSecret != "" {
		chain = append(chain, auth.NewJWTAuthenticator(
			auth.JWTConfig{Issuer: cfg.JWTIssuer},
			auth.NewStaticKeyProvider([]byte(cfg.JWTSecret)),
			admins,
		))
	}
	chain = append(chain, auth.NewHeaderAuthenticator(cfg.UserHeader, admins))
	return chain
}
