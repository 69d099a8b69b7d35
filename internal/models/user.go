package models

// AuthUser is the signed-in visitor as carried in the session token.
type AuthUser struct {
	ID          string  `json:"id"`
	UserName    string  `json:"user_name"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Provider    string  `json:"provider"`
}

// SessionResponse is the body of the session lookup endpoint.
type SessionResponse struct {
	User *AuthUser `json:"user"`
}
