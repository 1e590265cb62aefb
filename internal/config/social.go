package config

import "os"

// SocialConfig carries every external identity provider setting
// explicitly. Providers are wired into the federation client factory at
// startup; nothing registers itself at package load.
type SocialConfig struct {
	EnableGoogle       bool
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	EnableFacebook       bool
	FacebookClientID     string
	FacebookClientSecret string
	FacebookRedirectURL  string
}

func LoadSocial() SocialConfig {
	return SocialConfig{
		EnableGoogle:       EnvBool("ENABLE_GOOGLE_LOGIN"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),

		EnableFacebook:       EnvBool("ENABLE_FACEBOOK_LOGIN"),
		FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		FacebookRedirectURL:  os.Getenv("FACEBOOK_REDIRECT_URI"),
	}
}
