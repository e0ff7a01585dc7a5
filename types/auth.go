package types

import (
	"log"

	"blogrig-server/auth"
	"blogrig-server/db"
	"blogrig-server/shared"
)

type ServerAuth struct {
	User *db.User
}

func (a *ServerAuth) UserId() int64 {
	if a == nil || a.User == nil {
		return 0
	}
	return a.User.Id
}

func (a *ServerAuth) Role() shared.Role {
	if a == nil || a.User == nil {
		return ""
	}
	return a.User.Role
}

func (a *ServerAuth) HasRole(roles ...shared.Role) bool {
	res := auth.HasRole(a.Role(), roles...)
	if !res {
		log.Printf("role %q not in %v\n", a.Role(), roles)
	}
	return res
}
