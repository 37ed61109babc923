package testinfra

import (
	"corework/session"

	"github.com/fundwit/go-commons/types"
)

// BuildSecCtx build security context
func BuildSecCtx(uid types.ID, perms ...string) *session.Context {
	return &session.Context{Identity: session.Identity{ID: uid, Name: "user_" + uid.String()}, Perms: perms}
}
