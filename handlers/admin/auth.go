// handlers/admin/auth.go - Admin authentication
package admin

import (
	"time"

	"litdisplay/database"
	"litdisplay/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

// AuthHandler issues and verifies admin JWTs.
type AuthHandler struct {
	Secret string
	Log    *zap.Logger
}

func NewAuthHandler(secret string, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Secret: secret, Log: log}
}

// Login authenticates the operator account.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	db := database.GetDB()
	var user models.AdminUser
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	user.LastLogin = time.Now()
	db.Save(&user)

	token, expiresAt, err := h.generateToken(user.ID, user.Username)
	if err != nil {
		h.Log.Error("generate admin token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(LoginResponse{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	})
}

// Verify confirms a token already validated by the auth middleware.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"valid":    true,
		"user_id":  c.Locals("userId"),
		"username": c.Locals("username"),
		"is_admin": c.Locals("isAdmin"),
	})
}

// Logout is client-side token removal; the server just acknowledges.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) generateToken(userID uint, username string) (string, int64, error) {
	expiresAt := time.Now().Add(24 * time.Hour).Unix()

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"is_admin": true,
		"exp":      expiresAt,
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.Secret))
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt, nil
}

// EnsureAdmin seeds the operator account on first boot and resets the
// password hash when the configured password changes.
func EnsureAdmin(username, password string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if password == "" {
		log.Warn("no admin password configured, admin routes unusable")
		return nil
	}

	db := database.GetDB()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var user models.AdminUser
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		user = models.AdminUser{Username: username, PasswordHash: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Info("admin account created", zap.String("username", username))
		return nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		user.PasswordHash = string(hash)
		if err := db.Save(&user).Error; err != nil {
			return err
		}
		log.Info("admin password updated", zap.String("username", username))
	}
	return nil
}
