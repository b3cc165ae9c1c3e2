package permissions

import (
	"context"

	"github.com/rs/zerolog"
)

// AuthorizationConfig carries the statically configured privileged user
// IDs. It replaces environment-loaded globals: the values are resolved at
// construction time and passed in explicitly.
type AuthorizationConfig struct {
	OwnerID  uint
	AdminIDs []uint
}

// AdminGrantSource answers whether a user holds a persisted admin grant.
type AdminGrantSource interface {
	HasGrant(ctx context.Context, userID uint) (bool, error)
}

// Authorizer combines the static configuration with the DB-backed grant
// table behind a single privilege check.
type Authorizer struct {
	ownerID uint
	static  map[uint]struct{}
	grants  AdminGrantSource
	logger  zerolog.Logger
}

// NewAuthorizer constructs an Authorizer. grants may be nil when no grant
// table is wired, in which case only the static configuration applies.
func NewAuthorizer(cfg AuthorizationConfig, grants AdminGrantSource, logger zerolog.Logger) *Authorizer {
	static := make(map[uint]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		if id != 0 {
			static[id] = struct{}{}
		}
	}
	return &Authorizer{
		ownerID: cfg.OwnerID,
		static:  static,
		grants:  grants,
		logger:  logger.With().Str("component", "authorizer").Logger(),
	}
}

// IsPrivileged reports whether the user is the configured owner, a
// statically configured admin, or holds a persisted admin grant. Lookup
// failures resolve to false.
func (a *Authorizer) IsPrivileged(ctx context.Context, userID uint) bool {
	if userID == 0 {
		return false
	}
	if a.ownerID != 0 && userID == a.ownerID {
		return true
	}
	if _, ok := a.static[userID]; ok {
		return true
	}
	if a.grants == nil {
		return false
	}
	granted, err := a.grants.HasGrant(ctx, userID)
	if err != nil {
		a.logger.Warn().Err(err).Uint("user_id", userID).Msg("admin grant lookup failed")
		return false
	}
	return granted
}
