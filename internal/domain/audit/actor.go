package audit

// Actor identifies who performed a mutation and on which request.
type Actor struct {
	UserID    string
	RequestID string
	IP        string
}

func (a Actor) Entry(action, entityType, entityID string, before, after any) Entry {
	return Entry{
		ActorID:    a.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  a.RequestID,
		IP:         a.IP,
		Before:     before,
		After:      after,
	}
}
