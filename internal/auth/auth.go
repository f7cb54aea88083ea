package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const tokenLifetime = 24 * time.Hour

func SetupRoutes(r *gin.Engine, userService *services.UserService, sessionState *SessionState, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/signin", signIn(userService, sessionState, jwtSecret))
		auth.POST("/signout", AuthMiddleware(sessionState, jwtSecret), signOut(sessionState))
		auth.GET("/user", AuthMiddleware(sessionState, jwtSecret), getUser)
	}
}

func signIn(userService *services.UserService, sessionState *SessionState, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Email string `json:"email" binding:"required,email"`
			Name  string `json:"name"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.Validation("a valid email is required"))
			return
		}

		user, err := userService.CreateOrUpdateUser(request.Email, request.Name)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		token, err := issueToken(user.ID.String(), jwtSecret)
		if err != nil {
			apperrors.HandleError(c, apperrors.Internal(err))
			return
		}

		sessionState.Init(user)
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		})
	}
}

func signOut(sessionState *SessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionState.Teardown()
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	}
}

func getUser(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		apperrors.HandleError(c, apperrors.Unauthenticated())
		return
	}
	c.JSON(http.StatusOK, user)
}

// AuthMiddleware validates the bearer token and checks it matches the
// process session state before letting the request through.
func AuthMiddleware(sessionState *SessionState, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperrors.HandleError(c, apperrors.Unauthenticated())
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 {
			apperrors.HandleError(c, apperrors.Unauthenticated())
			c.Abort()
			return
		}

		subject, err := verifyToken(bearerToken[1], jwtSecret)
		if err != nil {
			apperrors.HandleError(c, apperrors.Unauthenticated())
			c.Abort()
			return
		}

		user, err := sessionState.CurrentUser()
		if err != nil || user.ID.String() != subject {
			apperrors.HandleError(c, apperrors.Unauthenticated())
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

func issueToken(subject, jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func verifyToken(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return subject, nil
}
