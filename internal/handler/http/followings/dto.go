// Package followings provides HTTP handlers for the followings read endpoint.
package followings

import (
	"time"

	"follow-digest/internal/domain/entity"
)

// UserDTO represents one followed account in responses.
type UserDTO struct {
	FullName          string `json:"full_name"`
	Username          string `json:"username"`
	ProfileURL        string `json:"profile_url"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// ListResponse is the body of a followings read.
type ListResponse struct {
	Platform   string    `json:"platform"`
	Username   string    `json:"username"`
	Search     string    `json:"search,omitempty"`
	Count      int       `json:"count"`
	Followings []UserDTO `json:"followings"`
	FetchedAt  time.Time `json:"fetched_at"`
}

func toUserDTOs(users []entity.FollowingUser) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = UserDTO{
			FullName:          u.FullName,
			Username:          u.Username,
			ProfileURL:        u.ProfileURL,
			ProfilePictureURL: u.ProfilePictureURL,
		}
	}
	return out
}
