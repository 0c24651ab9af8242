// Package profile serves the authenticated /me lookup: the caller presents
// the OAuth token obtained from the login flow and gets back the subset of
// its Twitch user record the client displays.
package profile

// HelixUser is one record of the Helix users endpoint. Only the first four
// fields are forwarded to the client.
type HelixUser struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
	BroadcasterType string `json:"broadcaster_type"`
	CreatedAt       string `json:"created_at"`
	Description     string `json:"description"`
	OfflineImageURL string `json:"offline_image_url"`
	Type            string `json:"type"`
	ViewCount       int64  `json:"view_count"`
}

// HelixUsersResponse wraps the list returned by GET /helix/users.
type HelixUsersResponse struct {
	Data []HelixUser `json:"data"`
}

// Profile is the public projection of a HelixUser.
type Profile struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// ProfileResponse is the body of a successful GET /me.
type ProfileResponse struct {
	Data Profile `json:"data"`
}

// toProfile drops every field the client does not use.
func toProfile(u HelixUser) Profile {
	return Profile{
		ID:              u.ID,
		Login:           u.Login,
		DisplayName:     u.DisplayName,
		ProfileImageURL: u.ProfileImageURL,
	}
}
