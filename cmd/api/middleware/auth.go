package middleware

import (
	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/internal/logger"
)

// RequireAuth 는 Bearer 토큰을 검증하고 Identity 를 컨텍스트에 저장한다.
// 토큰이 없거나 검증에 실패하면 401 로 중단한다.
func RequireAuth(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, "No token provided")
			return
		}

		id, err := provider.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.WarnWithFields("token verification failed", trace.LogFields(c.Request.Context(), logger.Fields{
				"path":  c.FullPath(),
				"error": err.Error(),
			}))
			auth.AbortWithUnauthorized(c, "Invalid or expired token")
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := auth.ExtractBearerToken(c); err == nil {
			if id, err := provider.VerifyToken(c.Request.Context(), token); err == nil {
				auth.SetIdentity(c, id)
			}
		}
		c.Next()
	}
}
