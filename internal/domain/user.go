package domain

// User is a registered shopper or administrator. Social-login users may have
// no password hash; GoogleID/AppleID link the account to a provider subject.
type User struct {
	ID                   int64   `json:"id"`
	Username             string  `json:"username"`
	Email                string  `json:"email"`
	PasswordHash         string  `json:"-"`
	Name                 string  `json:"name,omitempty"`
	Address              string  `json:"address,omitempty"`
	City                 string  `json:"city,omitempty"`
	State                string  `json:"state,omitempty"`
	Country              string  `json:"country,omitempty"`
	ZipCode              string  `json:"zipCode,omitempty"`
	Phone                string  `json:"phone,omitempty"`
	IsAdmin              bool    `json:"isAdmin"`
	StripeCustomerID     string  `json:"-"`
	StripeSubscriptionID string  `json:"-"`
	GoogleID             *string `json:"-"`
	AppleID              *string `json:"-"`
	ProfileImageURL      string  `json:"profileImageUrl,omitempty"`
}
