// Package auth resolves caller identities to bridge roles.
package auth

import (
	"strings"

	"go.uber.org/zap"

	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check
var _ domainService.Authorizer = (*StaticAdmins)(nil)

// StaticAdmins grants the admin role to a fixed set of identities.
// Identities are compared trimmed and case-insensitively.
type StaticAdmins struct {
	admins map[string]struct{}
}

func NewStaticAdmins(admins []string, logger *zap.Logger) *StaticAdmins {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		if key := normalize(a); key != "" {
			set[key] = struct{}{}
		}
	}
	if len(set) == 0 {
		logger.Warn("No bridge admins configured; admin operations will be rejected")
	}
	return &StaticAdmins{admins: set}
}

func (s *StaticAdmins) IsAdmin(caller string) bool {
	key := normalize(caller)
	if key == "" {
		return false
	}
	_, ok := s.admins[key]
	return ok
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
