package api

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"

	"github.com/lakeport-io/lakeport-go/internal/version"
)

// DefaultAPIVersion is used when a Config or an Endpoint does not select one.
const DefaultAPIVersion = "2.0"

// Config contains all session state for a Client. It is constructed once by
// the caller, validated by NewClient and read-only afterwards; there is no
// ambient package-level session.
type Config struct {
	// Host is the base URL of the workspace, e.g.
	// "https://workspace.cloud.lakeport.io".
	Host string

	// Token is the bearer token attached to every request. Acquiring the
	// token is the caller's concern.
	Token string

	// APIVersion selects the API version for endpoints that don't pin one.
	// Default: "2.0".
	APIVersion string

	// AccountID scopes account-level identity endpoints. Optional.
	AccountID string

	// Timeout for a single request. Default: 30 seconds.
	Timeout time.Duration

	// TLSVerify controls TLS certificate verification. Disable only for
	// development against self-signed hosts.
	TLSVerify *bool

	// UserAgent overrides the default "lakeport-go/<version>" header.
	UserAgent string

	// Logger is optional; defaults to a no-op logger.
	Logger hclog.Logger
}

// DefaultConfig returns a Config with defaults applied. Host and Token must
// still be set by the caller.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		APIVersion: DefaultAPIVersion,
		Timeout:    30 * time.Second,
		TLSVerify:  &tlsVerify,
	}
}

// ConfigFromEnv builds a Config from LAKEPORT_HOST, LAKEPORT_TOKEN,
// LAKEPORT_API_VERSION and LAKEPORT_ACCOUNT_ID. Unset variables leave the
// corresponding defaults in place.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.Host = os.Getenv("LAKEPORT_HOST")
	cfg.Token = os.Getenv("LAKEPORT_TOKEN")
	if v := os.Getenv("LAKEPORT_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	cfg.AccountID = os.Getenv("LAKEPORT_ACCOUNT_ID")
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required, validation.By(validateHostURL)),
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.APIVersion, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Duration(1))),
	)
}

func validateHostURL(value interface{}) error {
	host, _ := value.(string)
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("host must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host URL has no hostname")
	}
	return nil
}

// NewHTTPClient creates the HTTP client used by the dispatcher. The pooled
// transport is shared across requests; no other connection management exists
// beyond it.
func (c *Config) NewHTTPClient() *http.Client {
	transport := cleanhttp.DefaultPooledTransport()

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

func (c *Config) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return "lakeport-go/" + version.Version
}

func (c *Config) logger() hclog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return hclog.NewNullLogger()
}
