package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/auth"
	"see-eat-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ContextAccessToken is the gin key holding the caller's raw access token.
const ContextAccessToken = "AccessToken"

// AuthCookieName is the cookie read when no Authorization header is sent.
const AuthCookieName = "auth_token"

func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

func keyFunc(jwks *auth.Provider, secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if secret == "" {
				return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
			}
			return []byte(secret), nil
		case *jwt.SigningMethodRSA:
			if jwks == nil {
				return nil, fmt.Errorf("RS256 token received but no JWKS endpoint is configured")
			}
			return jwks.KeyFunc(token)
		}
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// AuthMiddleware verifies the access token and loads the caller's stored
// profile, creating a customer profile on the first request of a new identity. The role always comes from the profile, never from token claims.
// The session is attached to the request context for the usecases.
func AuthMiddleware(jwks *auth.Provider, jwtSecret string, authUC domain.AuthUsecase) gin.HandlerFunc {
	parse := keyFunc(jwks, jwtSecret)

	return func(c *gin.Context) {
		tokenString := accessToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, parse)
		if err != nil || !token.Valid {
			logger.Log.Debug("Token validation failed", zap.Error(err), zap.String("path", c.FullPath()))
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}
		sub, _ := claims.GetSubject()
		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		email, _ := claims["email"].(string)
		profile, err := authUC.ResolveUser(c.Request.Context(), sub, email)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Failed to load user profile", zap.String("user_id", sub), zap.Error(err))
				response.Error(c, http.StatusServiceUnavailable, "Unable to load user profile", nil)
			} else {
				response.Error(c, http.StatusUnauthorized, "User not found", nil)
			}
			c.Abort()
			return
		}

		if email == "" {
			email = profile.Email
		}
		s := domain.Session{UserID: sub, Email: email, Role: profile.Role}

		c.Set(string(domain.KeyUserID), s.UserID)
		c.Set(string(domain.KeyUserEmail), s.Email)
		c.Set(string(domain.KeyUserRole), s.Role)
		c.Set(ContextAccessToken, tokenString)
		c.Request = c.Request.WithContext(domain.WithSession(c.Request.Context(), s))

		c.Next()
	}
}

// RequireRole rejects callers whose stored role is not one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := domain.SessionFrom(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}
		for _, r := range roles {
			if s.Role == r {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "You do not have permission to access this resource", nil)
		c.Abort()
	}
}
