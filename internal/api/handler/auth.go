package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

// generateToken wraps a fresh connection id in a signed JWT. This is
// identity plumbing, not authentication: usernames stay self-asserted.
func (h *Handler) generateToken(connID string) (string, error) {
	claims := jwt.MapClaims{
		"conn_id": connID,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iss":     "omnichat-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

// GetToken issues a connection id and its token.
func (h *Handler) GetToken(c *gin.Context) {
	connID := uuid.New().String()

	token, err := h.generateToken(connID)
	if err != nil {
		h.Log.Error("token signing failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "conn_id": connID})
}

// validateAndGetConnID checks the token signature and extracts the
// connection id claim.
func (h *Handler) validateAndGetConnID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	connID, ok := claims["conn_id"].(string)
	if !ok || connID == "" {
		return "", fmt.Errorf("missing conn_id claim")
	}
	return connID, nil
}
