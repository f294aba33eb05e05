package types

// Profiles (roles) a user may hold.
type UserProfile string

func (p UserProfile) String() string {
	return string(p)
}

const (
	ProfileStudent   UserProfile = "STUDENT"
	ProfileModerator UserProfile = "MODERATOR"
)
