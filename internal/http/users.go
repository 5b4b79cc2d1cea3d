package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookfriends/server/internal/auth"
	"github.com/bookfriends/server/internal/database/users"
)

// UsersController handles registration, login and profile updates.
type UsersController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	limiter  *auth.LoginLimiter
}

func NewUsersController(service *auth.Service, sessions *auth.SessionManager, limiter *auth.LoginLimiter) *UsersController {
	return &UsersController{
		service:  service,
		sessions: sessions,
		limiter:  limiter,
	}
}

type registerRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NickName    string `json:"nickName" binding:"required"`
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type profileRequest struct {
	NickName  string `json:"nickName" binding:"max=100"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
	Signature string `json:"signature" binding:"max=512"`
	Gender    string `json:"gender" binding:"max=16"`
	Location  string `json:"location" binding:"max=256"`
}

// Register creates an account and logs it in.
// POST /api/user/register
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "phoneNumber, password and nickName are required")
		return
	}

	user, err := uc.service.Register(c.Request.Context(), req.PhoneNumber, req.Password, req.NickName)
	switch {
	case errors.Is(err, auth.ErrParameter),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
		return
	case errors.Is(err, auth.ErrUserExists):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "register user")
		return
	}

	if err := uc.sessions.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	respondCreated(c, user)
}

// Login checks the credentials and starts a session. Repeated failures
// for the same client and phone number lock the pair out for a while.
// POST /api/user/login
func (uc *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "phoneNumber and password are required")
		return
	}

	ip := c.ClientIP()
	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(ip, req.PhoneNumber); !ok {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			respondError(c, http.StatusTooManyRequests, auth.ErrAccountLocked.Error())
			return
		}
	}

	user, err := uc.service.Authenticate(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			if uc.limiter != nil && uc.limiter.RecordFailure(ip, req.PhoneNumber) {
				log.Printf("[AUTH] Login locked for %s after repeated failures", ip)
			}
			respondUnauthorized(c, "invalid phone number or password")
			return
		}
		if errors.Is(err, auth.ErrParameter) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	if uc.limiter != nil {
		uc.limiter.RecordSuccess(ip, req.PhoneNumber)
	}
	if err := uc.sessions.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	c.JSON(http.StatusOK, user)
}

// POST /api/user/logout
func (uc *UsersController) Logout(c *gin.Context) {
	if err := uc.sessions.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}
	respondSuccess(c, "logged out")
}

// Me returns the logged-in user.
// GET /api/user/me
func (uc *UsersController) Me(c *gin.Context) {
	user, err := uc.service.GetUser(c.Request.Context(), GetUserID(c))
	if errors.Is(err, auth.ErrUserNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateInfo changes the logged-in user's profile. Omitted fields are kept.
// PUT /api/user/info
func (uc *UsersController) UpdateInfo(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile: "+err.Error())
		return
	}

	user, err := uc.service.UpdateProfile(c.Request.Context(), GetUserID(c), users.Profile{
		NickName:  req.NickName,
		AvatarURL: req.AvatarURL,
		Signature: req.Signature,
		Gender:    req.Gender,
		Location:  req.Location,
	})
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		respondNotFound(c, "user")
		return
	case err != nil:
		respondInternalError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword replaces the logged-in user's password.
// PUT /api/user/password
func (uc *UsersController) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "oldPassword and newPassword are required")
		return
	}

	err := uc.service.ChangePassword(c.Request.Context(), GetUserID(c), req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		respondSuccess(c, "password changed")
	case errors.Is(err, auth.ErrInvalidPassword):
		respondUnauthorized(c, "current password is incorrect")
	case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		respondNotFound(c, "user")
	default:
		respondInternalError(c, err, "change password")
	}
}
