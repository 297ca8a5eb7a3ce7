package api

import (
	"net/http"

	reqdto "mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/internal/handler/httperr"
	"mcdee-marketplace/internal/handler/middleware"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/cookie"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/jwt"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds       commands.AuthCommands
	q          queries.UserQueries
	jwtService *jwt.Service
	cookieCfg  config.CookieConfig
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries, jwtService *jwt.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds:       cmds,
		q:          q,
		jwtService: jwtService,
		cookieCfg:  cfg.Cookie,
	}
}

// @Summary Register
// @Description Create a user or vendor account. Vendors must name their category.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}

	userID, err := h.cmds.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "register")
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "load registered user")
		return
	}
	resp, err := resdto.FromUserView(view)
	if err != nil {
		respondError(c, err, "load registered user")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary User login
// @Description Login with email and password. Tokens are set as HttpOnly cookies and the access token is also returned in the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBinding(c, err)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "login")
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), result.UserID)
	if err != nil {
		respondError(c, err, "load logged in user")
		return
	}
	user, err := resdto.FromUserView(view)
	if err != nil {
		respondError(c, err, "load logged in user")
		return
	}

	h.setCookies(c, result.TokenPair)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.TokenPair.AccessToken,
		ExpiresIn:   int64(h.jwtService.AccessTokenDuration().Seconds()),
		User:        user,
	})
}

// @Summary Refresh tokens
// @Description Rotate the token pair using the refresh cookie, or refresh_token in the body when no cookie is sent.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest false "Refresh request"
// @Success 200 {object} resdto.RefreshResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := cookie.GetRefreshToken(c)
	if token == "" {
		var req reqdto.RefreshRequest
		if c.Request.ContentLength != 0 {
			_ = c.ShouldBindJSON(&req)
		}
		token = req.RefreshToken
	}
	if token == "" {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "Refresh token required", nil)
		return
	}

	pair, err := h.cmds.RefreshToken(c.Request.Context(), token)
	if err != nil {
		cookie.ClearTokenCookies(c, h.cookieCfg)
		respondError(c, err, "refresh token")
		return
	}

	h.setCookies(c, pair)
	c.JSON(http.StatusOK, resdto.RefreshResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int64(h.jwtService.AccessTokenDuration().Seconds()),
	})
}

// @Summary User logout
// @Description Clear the token cookies. Bearer clients drop the token themselves.
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookies(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get current user")
		return
	}
	resp, err := resdto.FromUserView(view)
	if err != nil {
		respondError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) setCookies(c *gin.Context, pair *commands.TokenPair) {
	cookie.SetTokenCookies(c, h.cookieCfg, pair.AccessToken, pair.RefreshToken,
		h.jwtService.AccessTokenDuration(), h.jwtService.RefreshTokenDuration())
}
