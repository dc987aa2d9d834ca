package domain

// Session carries the identity of the user an operation acts for.
// An empty UserID means nobody is signed in.
type Session struct {
	UserID string
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

const anonymousCacheID = "anonymous"

// CacheID namespaces local state. Signed-out use shares one slot.
func (s Session) CacheID() string {
	if s.UserID == "" {
		return anonymousCacheID
	}
	return s.UserID
}
