package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/google"

	"github.com/layinded/swifter-fs/internal/config"
	"github.com/layinded/swifter-fs/internal/models"
)

var ErrUnknownProvider = errors.New("unknown or disabled identity provider")

const (
	googleUserInfoURL   = "https://openidconnect.googleapis.com/v1/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email"
)

// Clients is the static registry of configured provider integrations.
// Providers absent from the config simply do not exist here; nothing
// is registered as a side effect of package loading.
type Clients struct {
	configs      map[string]*oauth2.Config
	userInfoURLs map[string]string
}

func New(cfg config.SocialConfig) *Clients {
	c := &Clients{
		configs: make(map[string]*oauth2.Config),
		userInfoURLs: map[string]string{
			models.ProviderGoogle:   googleUserInfoURL,
			models.ProviderFacebook: facebookUserInfoURL,
		},
	}

	if cfg.EnableGoogle {
		c.configs[models.ProviderGoogle] = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}
	if cfg.EnableFacebook {
		c.configs[models.ProviderFacebook] = &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.FacebookRedirectURL,
			Endpoint:     endpoints.Facebook,
			Scopes:       []string{"email", "public_profile"},
		}
	}
	return c
}

func (c *Clients) Enabled(provider string) bool {
	_, ok := c.configs[provider]
	return ok
}

// AuthCodeURL builds the provider's consent page URL carrying state.
func (c *Clients) AuthCodeURL(provider, state string) (string, error) {
	conf, ok := c.configs[provider]
	if !ok {
		return "", ErrUnknownProvider
	}
	return conf.AuthCodeURL(state), nil
}

// Exchange trades the callback code for a provider access token.
func (c *Clients) Exchange(ctx context.Context, provider, code string) (*oauth2.Token, error) {
	conf, ok := c.configs[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("federation: %s code exchange: %w", provider, err)
	}
	return tok, nil
}

// FetchUserInfo retrieves the provider's user-info payload with the
// exchanged token. The payload is returned as-is; pulling the subject
// identifier out of it is the resolver's concern.
func (c *Clients) FetchUserInfo(ctx context.Context, provider string, tok *oauth2.Token) (map[string]interface{}, error) {
	conf, ok := c.configs[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	resp, err := conf.Client(ctx, tok).Get(c.userInfoURLs[provider])
	if err != nil {
		return nil, fmt.Errorf("federation: %s user info: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("federation: %s user info: status %d: %s", provider, resp.StatusCode, body)
	}

	var userInfo map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("federation: %s user info decode: %w", provider, err)
	}
	if errVal, ok := userInfo["error"]; ok {
		return nil, fmt.Errorf("federation: %s user info error: %v", provider, errVal)
	}
	return userInfo, nil
}
