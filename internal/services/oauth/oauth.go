// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package oauth wraps social login behind a polymorphic provider
// interface. The OAuth handshake itself is delegated to golang.org/x/oauth2;
// this package only maps callback payloads to external identities.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/linkedin"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
)

// ErrUnknownProvider is returned for provider names without configuration.
var ErrUnknownProvider = errors.New("unknown oauth provider")

// Identity is the external account a provider vouches for.
type Identity struct {
	Provider   string
	ExternalID string
	Username   string
	Email      string
}

// Provider authenticates a callback payload against one social login
// backend.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Authenticate(ctx context.Context, code string) (*Identity, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds the provider registry from configuration. Providers
// without credentials are left out.
func NewRegistry(cfg *config.OAuthConfig, baseURL string) *Registry {
	r := &Registry{providers: make(map[string]Provider)}

	if cfg.GitHubKey != "" {
		r.providers["github"] = &githubProvider{
			cfg: &oauth2.Config{
				ClientID:     cfg.GitHubKey,
				ClientSecret: cfg.GitHubSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  baseURL + "/oauth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
			},
		}
	}

	if cfg.LinkedInKey != "" {
		r.providers["linkedin"] = &linkedinProvider{
			cfg: &oauth2.Config{
				ClientID:     cfg.LinkedInKey,
				ClientSecret: cfg.LinkedInSecret,
				Endpoint:     linkedin.Endpoint,
				RedirectURL:  baseURL + "/oauth/linkedin/callback",
				Scopes:       []string{"openid", "profile", "email"},
			},
		}
	}

	return r
}

// Get returns the provider with the given name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

type githubProvider struct {
	cfg *oauth2.Config
}

func (p *githubProvider) Name() string { return "github" }

func (p *githubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *githubProvider) Authenticate(ctx context.Context, code string) (*Identity, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github code exchange: %w", err)
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := fetchJSON(ctx, p.cfg.Client(ctx, token), "https://api.github.com/user", &payload); err != nil {
		return nil, fmt.Errorf("github user info: %w", err)
	}

	return &Identity{
		Provider:   p.Name(),
		ExternalID: strconv.FormatInt(payload.ID, 10),
		Username:   payload.Login,
		Email:      payload.Email,
	}, nil
}

type linkedinProvider struct {
	cfg *oauth2.Config
}

func (p *linkedinProvider) Name() string { return "linkedin" }

func (p *linkedinProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *linkedinProvider) Authenticate(ctx context.Context, code string) (*Identity, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("linkedin code exchange: %w", err)
	}

	var payload struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := fetchJSON(ctx, p.cfg.Client(ctx, token), "https://api.linkedin.com/v2/userinfo", &payload); err != nil {
		return nil, fmt.Errorf("linkedin user info: %w", err)
	}

	return &Identity{
		Provider:   p.Name(),
		ExternalID: payload.Sub,
		Username:   payload.Name,
		Email:      payload.Email,
	}, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
