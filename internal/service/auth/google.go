package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleAuthenticator runs the Google OAuth2 authorization-code flow.
type GoogleAuthenticator struct {
	cfg *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether credentials were configured.
func (g *GoogleAuthenticator) Enabled() bool {
	return g != nil && g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

// AuthURL builds the consent page URL for the given CSRF state.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the user's Google profile.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("google token exchange: %w", err)
	}

	resp, err := g.cfg.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("google userinfo: unexpected status %d", resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Profile{}, fmt.Errorf("google userinfo: decode: %w", err)
	}
	if info.ID == "" {
		return Profile{}, fmt.Errorf("google userinfo: empty subject")
	}

	return Profile{
		Provider: "google",
		Subject:  info.ID,
		Email:    info.Email,
		Name:     info.Name,
		ImageURL: info.Picture,
	}, nil
}
