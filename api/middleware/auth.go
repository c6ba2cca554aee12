package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"yatube/services"

	"github.com/gin-gonic/gin"
)

const AuthCookieName = "auth_token"

var userService = services.NewUserService()

// tokenFromRequest достает токен из заголовка Authorization
// или из куки (для страниц сайта)
func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// OptionalAuth кладет user_id и username в контекст, если токен валиден.
// Анонимов пропускает дальше.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token != "" {
			if user, err := userService.UserByToken(c.Request.Context(), token); err == nil {
				c.Set("user_id", user.ID)
				c.Set("username", user.Username)
			}
		}
		c.Next()
	}
}

// AuthRequired - аутентификация для API, без токена отвечает 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		user, err := userService.UserByToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}
		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}

// LoginRequired - аутентификация для страниц сайта. Анонима уводим
// на форму логина, исходный путь передаем в параметре next.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token != "" {
			if user, err := userService.UserByToken(c.Request.Context(), token); err == nil {
				c.Set("user_id", user.ID)
				c.Set("username", user.Username)
				c.Next()
				return
			}
		}
		next := url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, "/auth/login/?next="+next)
		c.Abort()
	}
}
