package ecommerce

import "errors"

// Square REST endpoints per environment
const (
	squareProductionBaseURL = "https://connect.squareup.com"
	squareSandboxBaseURL    = "https://connect.squareupsandbox.com"

	// squareAPIVersion pins the Square-Version request header
	squareAPIVersion = "2024-01-18"

	defaultTimeoutSeconds = 30
)

// Configuration validation errors
var (
	ErrSquareConfigMissingToken    = errors.New("square: access token is required")
	ErrSquareConfigMissingLocation = errors.New("square: location id is required")
	ErrSquareConfigBadEnvironment  = errors.New("square: environment must be sandbox or production")
)

// SquareConfig holds credentials and connection settings for the
// Square platform
type SquareConfig struct {
	AccessToken    string
	Environment    string // "sandbox" or "production"
	LocationID     string
	TimeoutSeconds int
	RedirectURL    string
}

// Validate checks required fields and fills defaults
func (c *SquareConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrSquareConfigMissingToken
	}
	if c.LocationID == "" {
		return ErrSquareConfigMissingLocation
	}
	switch c.Environment {
	case "":
		c.Environment = "sandbox"
	case "sandbox", "production":
	default:
		return ErrSquareConfigBadEnvironment
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	return nil
}

// BaseURL returns the REST endpoint for the configured environment
func (c *SquareConfig) BaseURL() string {
	if c.Environment == "production" {
		return squareProductionBaseURL
	}
	return squareSandboxBaseURL
}
