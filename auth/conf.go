package auth

import "golang.org/x/oauth2/clientcredentials"

// Conf configures client-credential authentication against a model registry
// that protects its artifact downloads.
type Conf struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AuthURL      string `json:"auth_url"`
}

// Enabled reports whether authentication is configured at all.
func (c *Conf) Enabled() bool {
	return c != nil && c.ClientID != "" && c.AuthURL != ""
}

func (c *Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
	}
}
