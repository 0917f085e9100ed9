package domain

// UserType discriminates the two account systems that share one logical user
// space. Google-account users carry their OAuth subject as ID, phone-account
// users carry their verified number.
type UserType string

const (
	UserTypeGoogle UserType = "google"
	UserTypePhone  UserType = "phone"
)

// UserRef is the opaque user identity the core works with. The persistence
// layer stores it as a (user_id, user_type) column pair.
type UserRef struct {
	Type UserType `json:"user_type"`
	ID   string   `json:"user_id"`
}

func (r UserRef) Equal(other UserRef) bool {
	return r.Type == other.Type && r.ID == other.ID
}

func (r UserRef) IsZero() bool {
	return r.ID == ""
}

// User carries the minimal profile the lifecycle core needs: a display name
// and contact points for notification emails and message deep-links.
type User struct {
	Ref   UserRef `json:"ref"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone,omitempty"`
}

// ActorRole is a user's role relative to one rental request.
type ActorRole string

const (
	RoleRenter ActorRole = "renter"
	RoleLister ActorRole = "lister"
)
