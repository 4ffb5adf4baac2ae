package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

const sessionIDKey = "sessionID"

// SessionCookie identifies the browser context. The cookie carries only a
// signed session id; the profile lives in the session store.
type SessionCookie struct {
	Name   string
	Secure bool
	Signer *utils.Signer
}

// Middleware resolves the session id for the request. A missing, expired
// or forged cookie gets a fresh id that nothing has been stored under.
func (s *SessionCookie) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""
		if raw, err := c.Cookie(s.Name); err == nil && raw != "" {
			if claims, err := s.Signer.Validate(raw); err == nil {
				sid = claims.Subject
			}
		}
		if sid == "" {
			sid = uuid.NewString()
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// Issue writes the cookie for sid after a successful authentication.
func (s *SessionCookie) Issue(c *gin.Context, sid, role string) error {
	token, err := s.Signer.Generate(sid, role)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, token, int(s.Signer.TTL().Seconds()), "/", "", s.Secure, true)
	return nil
}

func (s *SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// SessionID returns the id resolved by Middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
