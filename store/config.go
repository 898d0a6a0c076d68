package store

// Config holds configuration for building a DynamoDB client.
type Config struct {
	// LocalRegion is the placeholder region used when the endpoint is a URL.
	// Default: "us-east-1"
	LocalRegion string

	// LocalAccessKeyID and LocalSecretAccessKey are the static credentials
	// used for URL endpoints when AWS_ACCESS_KEY_ID is not set. Emulators
	// such as DynamoDB Local accept any values but still require signed
	// requests.
	// Default: "local"
	LocalAccessKeyID     string
	LocalSecretAccessKey string
}

// DefaultConfig returns the configuration used by NewClient.
func DefaultConfig() Config {
	return Config{
		LocalRegion:          "us-east-1",
		LocalAccessKeyID:     "local",
		LocalSecretAccessKey: "local",
	}
}

// validate fills in defaults for empty values.
func (c *Config) validate() {
	if c.LocalRegion == "" {
		c.LocalRegion = "us-east-1"
	}
	if c.LocalAccessKeyID == "" {
		c.LocalAccessKeyID = "local"
	}
	if c.LocalSecretAccessKey == "" {
		c.LocalSecretAccessKey = "local"
	}
}
