package credentials

// Credentials is the on-disk shape of credentials.toml:
//
//	version = 0
//
//	[providers.openai]
//	api_key = "sk-..."
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential is the stored secret for one provider.
type ProviderCredential struct {
	APIKey string `toml:"api_key"`
}

func newCredentials() *Credentials {
	return &Credentials{
		Version:   currentVersion,
		Providers: make(map[string]ProviderCredential),
	}
}

// Key returns the stored API key for provider, or "".
func (c *Credentials) Key(provider string) string {
	return c.Providers[provider].APIKey
}
