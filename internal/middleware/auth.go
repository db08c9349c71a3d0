package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/promptvault-api/internal/constants"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/services"
)

// AuthMethod tells how a request proved who it is
type AuthMethod string

const (
	AuthMethodSession AuthMethod = "session"
	AuthMethodAPIKey  AuthMethod = "api_key"
)

// Identity is the authenticated principal of a request.
// APIKeyID is zero for session requests.
type Identity struct {
	UserID   uint64
	Method   AuthMethod
	APIKeyID uint64
}

// Authenticator resolves sessions and API keys into an Identity.
type Authenticator struct {
	authService   *services.AuthService
	apiKeyService *services.APIKeyService
	log           *zap.Logger
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(authService *services.AuthService, apiKeyService *services.APIKeyService, log *zap.Logger) *Authenticator {
	return &Authenticator{
		authService:   authService,
		apiKeyService: apiKeyService,
		log:           log.Named("Authenticator"),
	}
}

// RequireSession checks if the user is authenticated via session
func (a *Authenticator) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.fromSession(c)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireSessionOrAPIKey accepts a session first and falls back to the API key header.
func (a *Authenticator) RequireSessionOrAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.fromSession(c)
		if err != nil && !errors.Is(err, apierrors.ErrUnauthenticated) {
			apierrors.Respond(c, err)
			return
		}

		if err != nil {
			identity, err = a.fromAPIKey(c)
			if err != nil {
				apierrors.Respond(c, err)
				return
			}
		}

		setIdentity(c, identity)
		c.Next()
	}
}

var errNoSession = apierrors.Kind(apierrors.ErrUnauthenticated, "Authentication required")

func (a *Authenticator) fromSession(c *gin.Context) (Identity, error) {
	session := sessions.Default(c)
	userID, ok := toUserID(session.Get(constants.ContextKeyUserID))
	if !ok {
		return Identity{}, errNoSession
	}

	if _, err := a.authService.GetUser(c.Request.Context(), userID); err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			return Identity{}, err
		}
		// The user behind this session no longer exists
		session.Clear()
		if saveErr := session.Save(); saveErr != nil {
			a.log.Warn("failed to clear stale session", zap.Error(saveErr))
		}
		return Identity{}, errNoSession
	}

	return Identity{UserID: userID, Method: AuthMethodSession}, nil
}

func (a *Authenticator) fromAPIKey(c *gin.Context) (Identity, error) {
	plaintext := c.GetHeader(constants.APIKeyHeader)
	if plaintext == "" {
		return Identity{}, errNoSession
	}

	key, err := a.apiKeyService.Authenticate(c.Request.Context(), plaintext)
	if err != nil {
		return Identity{}, err
	}

	return Identity{UserID: key.UserID, Method: AuthMethodAPIKey, APIKeyID: key.ID}, nil
}

func setIdentity(c *gin.Context, identity Identity) {
	c.Set(constants.ContextKeyIdentity, identity)
	c.Set(constants.ContextKeyUserID, identity.UserID)
}

// GetIdentity retrieves the resolved identity from context
func GetIdentity(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
