package app

import (
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/database"
	"github.com/taskdeck/taskdeck/internal/services"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// ActivationCodeOptions converts AuthConfig into ActivationCodeService options.
func (c AuthConfig) ActivationCodeOptions() []services.CodeOption {
	var opts []services.CodeOption
	if c.Activation.CodeDigits > 0 {
		opts = append(opts, services.WithCodeDigits(c.Activation.CodeDigits))
	}
	return opts
}

// StoreConfig converts the configuration into database connection options.
func (c DatabaseConfig) StoreConfig() database.Config {
	return database.Config{
		Driver:   c.Driver,
		Path:     c.Path,
		DSN:      c.DSN,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.Username,
		Password: c.Password,
		Name:     c.Name,
		Options:  c.Options,
	}
}
