package client

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DefaultRetries is the default retry ceiling: a call makes at most
// DefaultRetries+1 attempts.
const DefaultRetries = 3

// Config holds configuration for the Client.
type Config struct {
	// Region is the signing region.
	// Default: "us-east-1"
	Region string

	// Host is the endpoint host.
	// Default: "dynamodb.<region>.amazonaws.com"
	Host string

	// Port overrides the endpoint port. 0 uses the scheme default.
	Port int

	// DisableTLS switches the endpoint to plain HTTP. Useful against
	// local store emulators; never against the real service.
	DisableTLS bool

	// HTTPClient performs the exchanges and owns the connection pool
	// shared by concurrent calls. Default: a fresh http.Client.
	HTTPClient *http.Client

	// Retries is the retry ceiling for retryable failures.
	// 0 means DefaultRetries; negative disables retries entirely.
	Retries int

	// Credentials supplies signing credentials. Use [StaticCredentials],
	// [SessionCredentials], or any aws.CredentialsProvider.
	Credentials aws.CredentialsProvider

	// Logger receives attempt and retry diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.Host == "" {
		c.Host = "dynamodb." + c.Region + ".amazonaws.com"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// endpoint returns the full URL requests are posted to.
func (c *Config) endpoint() string {
	scheme := "https"
	if c.DisableTLS {
		scheme = "http"
	}
	host := c.Host
	if c.Port > 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	return scheme + "://" + host + "/"
}

// StaticCredentials returns a provider for long-lived access keys.
func StaticCredentials(accessKeyID, secretAccessKey string) aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")
}

// SessionCredentials returns a provider for pre-obtained temporary
// credentials: an access key pair plus a session token and its expiry.
func SessionCredentials(accessKeyID, secretAccessKey, sessionToken string, expires time.Time) aws.CredentialsProvider {
	return credentials.StaticCredentialsProvider{
		Value: aws.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    sessionToken,
			CanExpire:       true,
			Expires:         expires,
			Source:          "SessionCredentials",
		},
	}
}
