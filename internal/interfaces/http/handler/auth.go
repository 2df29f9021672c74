package handler

import (
	appidentity "github.com/creatorhub/backend/internal/application/identity"
	"github.com/creatorhub/backend/internal/infrastructure/auth"
	"github.com/creatorhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication API endpoints
type AuthHandler struct {
	BaseHandler
	identityService *appidentity.IdentityService
	userService     *appidentity.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(identityService *appidentity.IdentityService, userService *appidentity.UserService) *AuthHandler {
	return &AuthHandler{
		identityService: identityService,
		userService:     userService,
	}
}

// AuthorizeURLRequest carries the client's CSRF state value
type AuthorizeURLRequest struct {
	State string `form:"state" binding:"required,min=8,max=128"`
}

// AuthorizeURLResponse carries the provider login URL
type AuthorizeURLResponse struct {
	URL string `json:"url"`
}

// GetAuthorizeURL godoc
// @Summary      Get the identity provider login URL
// @Description  Returns the external provider authorize URL for the given state
// @Tags         auth
// @Produce      json
// @Router       /auth/authorize-url [get]
func (h *AuthHandler) GetAuthorizeURL(c *gin.Context) {
	var req AuthorizeURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid or missing state parameter")
		return
	}

	h.Success(c, AuthorizeURLResponse{
		URL: h.identityService.AuthorizeURL(req.State),
	})
}

// LoginRequest carries the OAuth authorization code
type LoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginResponse represents a completed login
type LoginResponse struct {
	User      appidentity.UserResponse `json:"user"`
	Tokens    auth.TokenPair           `json:"tokens"`
	IsNewUser bool                     `json:"is_new_user"`
}

// Login godoc
// @Summary      Complete the OAuth code flow
// @Description  Exchanges the provider code, resolves the identity and issues tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.identityService.Login(c.Request.Context(), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		User:      result.User,
		Tokens:    result.TokenPair,
		IsNewUser: result.IsNewUser,
	})
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Issues a new token pair from a valid refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.identityService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		User:   result.User,
		Tokens: result.TokenPair,
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented access token for its remaining lifetime
// @Tags         auth
// @Produce      json
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.identityService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out"})
}

// GetCurrentUser godoc
// @Summary      Get the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
