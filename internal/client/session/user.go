package session

import (
	"encoding/json"
	"errors"
)

// ErrUnrecognizedResponse is returned when the verification response does not
// contain a user identity under any of the known shapes.
var ErrUnrecognizedResponse = errors.New("unrecognized verify-response shape")

// User is the confirmed identity record returned by the backend. A User is
// only trustworthy when it came out of a successful verification call keyed
// by the currently held token.
type User struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Avatar           string `json:"avatar,omitempty"`
	ProfileURL       string `json:"profile_url,omitempty"`
	Provider         string `json:"app_name,omitempty"`
	SubscriptionTier string `json:"subscriptionTier,omitempty"`
	Private          bool   `json:"isPrivate,omitempty"`
}

// DecodeUser normalizes the three response shapes the backend is known to
// produce: the user object under "user", under "data", or as the bare
// payload. Shapes are tried in that order; the first one yielding an object
// with a non-zero id wins. Anything else is ErrUnrecognizedResponse.
func DecodeUser(body []byte) (*User, error) {
	var envelope struct {
		User *User `json:"user"`
		Data *User `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.User != nil && envelope.User.ID != 0 {
			return envelope.User, nil
		}
		if envelope.Data != nil && envelope.Data.ID != 0 {
			return envelope.Data, nil
		}
	}

	var bare User
	if err := json.Unmarshal(body, &bare); err == nil && bare.ID != 0 {
		return &bare, nil
	}

	return nil, ErrUnrecognizedResponse
}
