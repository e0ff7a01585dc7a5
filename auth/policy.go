package auth

import "blogrig-server/shared"

// Allow grants access when the actor holds one of roles, or when ownerId is
// set and matches the actor.
func Allow(actorRole shared.Role, actorId int64, ownerId *int64, roles ...shared.Role) bool {
	if HasRole(actorRole, roles...) {
		return true
	}
	return ownerId != nil && *ownerId == actorId
}

func HasRole(actorRole shared.Role, roles ...shared.Role) bool {
	for _, r := range roles {
		if actorRole == r {
			return true
		}
	}
	return false
}
