package ecs

import "strconv"

// EntityId is a dense identifier for a live entity. Ids are recycled after the
// entity is destroyed, so an id only names an entity while it is live.
type EntityId uint32

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// EntityRef is a stable reference to an entity. It pairs an id with the
// generation the id had when the ref was taken, so a ref to a destroyed
// entity never resolves to whichever entity later reuses the id.
type EntityRef struct {
	Id         EntityId
	Generation uint32
}
