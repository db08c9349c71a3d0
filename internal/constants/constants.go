package constants

import (
	"math"
	"time"
)

// Session and context keys
const (
	SessionCookieName   = "promptvault_session"
	ContextKeyUserID    = "user_id"
	ContextKeyIdentity  = "identity"
	ContextKeyProject   = "project"
	ContextKeyMember    = "project_member"
	ContextKeyRequestID = "request_id"
)

// Authentication
const (
	MinPasswordLength    = 6
	BcryptCost           = 12
	APIKeyHeader         = "X-API-Key"
	RequestIDHeader      = "X-Request-ID"
	DefaultSessionMaxAge = 7 * 24 * time.Hour
)

// API keys
const (
	APIKeyPrefix       = "pk_"
	APIKeySecretBytes  = 32
	APIKeyDisplayChars = 8
	APIKeyMask         = "••••••••"
)

// Slugs are stored in varchar(100) columns
const MaxSlugLength = 100

// Prompts
const (
	DefaultPromptCategory = "general"
	DefaultVersionMessage = "Version %d"
	MaxVersionAttempts    = 3
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt32 / MaxPageSize
)
