// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to PeopleDesk lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: peopledesk-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a session cookie stays valid

	// CSRF protection
	CSRFKey string // 32-byte secret for CSRF tokens (must be strong in production)

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty disables auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@peopledesk.app)

	// Base URL for links in outbound email (invite accept links)
	BaseURL string // e.g., "https://peopledesk.example.com" or "http://localhost:3000"

	// Employee invitations
	InviteExpiry time.Duration // How long a new invite stays acceptable

	// Google OAuth configuration
	GoogleClientID     string // Google OAuth2 client ID (empty disables Google sign-in)
	GoogleClientSecret string // Google OAuth2 client secret

	// Bootstrap HR admin: on startup, ensure this email has an account and
	// promote its first membership to hr_admin. Empty disables.
	BootstrapHRAdminEmail string
}
