package users

// User is the account record as stored and as serialized to API clients.
// JSON tags match the shapes the web and CLI clients decode.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	Avatar           string `json:"avatar,omitempty"`
	ProfileURL       string `json:"profile_url,omitempty"`
	Provider         string `json:"app_name,omitempty"`
	SubscriptionTier string `json:"subscriptionTier,omitempty"`
	Private          bool   `json:"isPrivate"`
}
