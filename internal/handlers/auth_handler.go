package handlers

import (
	"time"

	"rental/internal/apperr"
	"rental/internal/middleware"
	"rental/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CookieOptions controls the session cookie set on login.
type CookieOptions struct {
	TTL      time.Duration // zero issues a browser-session cookie
	Secure   bool
	SameSite string
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cookie      CookieOptions
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. identify resolves the
// optional session for /profile.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, identify fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
	router.Get("/profile", identify, h.HandleProfile)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperr.FromValidator(err)
	}

	user, err := h.authService.RegisterUser(req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks credentials and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperr.FromValidator(err)
	}

	user, token, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return err
	}

	cookie := &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	}
	if h.cookie.TTL > 0 {
		cookie.Expires = time.Now().Add(h.cookie.TTL)
	}
	c.Cookie(cookie)
	return c.JSON(user)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
		Expires:  time.Unix(0, 0),
	})
	return c.JSON("logout")
}

// HandleProfile returns the caller's public profile, or null when anonymous.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	claims, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(nil)
	}
	user, err := h.authService.Profile(claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(user.Profile())
}
