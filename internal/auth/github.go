package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultGitHubAPI = "https://api.github.com"

// userNamespace scopes derived user ids so provider ids never collide across providers.
var userNamespace = uuid.MustParse("6f1c5f0e-3d1e-4b8e-9a55-0d8f0c7b9a21")

// GitHubOptions overrides the GitHub endpoints, mainly for tests.
type GitHubOptions struct {
	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

// GitHubProvider turns an OAuth authorization code into a blog user.
type GitHubProvider struct {
	oauth *oauth2.Config
	api   *resty.Client
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func NewGitHubProvider(clientID, clientSecret, redirectURL string, opts GitHubOptions) *GitHubProvider {
	endpoint := github.Endpoint
	if opts.AuthURL != "" {
		endpoint.AuthURL = opts.AuthURL
	}
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = defaultGitHubAPI
	}

	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user"},
		},
		api: resty.New().
			SetBaseURL(apiBase).
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/vnd.github+json").
			SetHeader("User-Agent", "giho-blog"),
	}
}

// AuthCodeURL is where the browser is sent to approve sign-in.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades code for an access token and loads the GitHub profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*models.AuthUser, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	var profile githubUser
	resp, err := p.api.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&profile).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("fetch github profile: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch github profile: unexpected status %d", resp.StatusCode())
	}
	if profile.ID == 0 || profile.Login == "" {
		return nil, errors.New("fetch github profile: incomplete profile")
	}

	return profileToUser(profile), nil
}

func profileToUser(profile githubUser) *models.AuthUser {
	displayName := profile.Name
	if displayName == "" {
		displayName = profile.Login
	}
	var avatar *string
	if profile.AvatarURL != "" {
		avatar = &profile.AvatarURL
	}
	return &models.AuthUser{
		ID:          UserIDFor("github", strconv.FormatInt(profile.ID, 10)),
		UserName:    profile.Login,
		DisplayName: displayName,
		AvatarURL:   avatar,
		Provider:    "github",
	}
}

// UserIDFor derives the stable blog user id for a provider account.
func UserIDFor(provider, providerID string) string {
	return uuid.NewSHA1(userNamespace, []byte(provider+":"+providerID)).String()
}
