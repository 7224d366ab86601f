package domain

// Owner scopes a cart to either an authenticated user or an anonymous
// session. Exactly one discriminant is set; values are built through
// UserOwner or SessionOwner so the mutual exclusivity holds by construction.
type Owner struct {
	userID    string
	sessionID string
}

// UserOwner returns an Owner bound to an authenticated user.
func UserOwner(userID string) Owner {
	return Owner{userID: userID}
}

// SessionOwner returns an Owner bound to an anonymous session token.
func SessionOwner(sessionID string) Owner {
	return Owner{sessionID: sessionID}
}

// UserID reports the user discriminant, if set.
func (o Owner) UserID() (string, bool) {
	return o.userID, o.userID != ""
}

// SessionID reports the session discriminant, if set.
func (o Owner) SessionID() (string, bool) {
	return o.sessionID, o.sessionID != ""
}

// IsZero reports whether the owner carries no identity at all.
func (o Owner) IsZero() bool {
	return o.userID == "" && o.sessionID == ""
}

func (o Owner) String() string {
	if o.userID != "" {
		return "user:" + o.userID
	}
	if o.sessionID != "" {
		return "session:" + o.sessionID
	}
	return "owner:none"
}
