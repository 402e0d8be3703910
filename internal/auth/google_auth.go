package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProfile is the part of the Google account we keep.
type GoogleProfile struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// GoogleProvider runs the OAuth2 authorization-code flow for sign-in.
type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL is where the browser is sent to grant consent.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and fetches the profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange google code: %w", err)
	}

	// Upgrade the token to an authenticated client for the userinfo API
	svc, err := googleoauth2.NewService(ctx, option.WithHTTPClient(p.config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("google userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, errors.New("google userinfo: missing id or email")
	}

	return &GoogleProfile{
		Subject:       info.Id,
		Email:         info.Email,
		Name:          info.Name,
		EmailVerified: info.VerifiedEmail != nil && *info.VerifiedEmail,
	}, nil
}
