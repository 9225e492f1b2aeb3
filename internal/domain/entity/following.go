package entity

// FollowingUser is one account that a tracked user follows on a platform.
// Identity is the (platform, parent username, username) triple; the parent
// username is carried by the enclosing snapshot, not the entity itself.
type FollowingUser struct {
	FullName          string `json:"full_name"`
	Username          string `json:"username"`
	ProfileURL        string `json:"profile_url"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}
