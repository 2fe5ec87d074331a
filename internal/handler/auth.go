package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/middleware"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/util"
)

// AuthHandler serves registration, login/logout and profile reads.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type userResp struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResp(u *models.User) userResp {
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type registerReq struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "datos de registro invalidos")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "el correo ya esta en uso")
		return
	}
	if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if count > 0 {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "el nombre de usuario ya esta en uso")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, toUserResp(&user))
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "datos de acceso invalidos")
		return
	}

	var user models.User
	err := h.DB.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "User not found")
		return
	}
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "Incorrect password")
		return
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, session.ID, h.TokenTTL)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	c.SetCookie("token", token, int(h.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
		"updatedAt": user.UpdatedAt,
		"token":     token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if v, ok := c.Get(middleware.SessionIDKey); ok {
		if sid, ok := v.(string); ok && sid != "" {
			h.DB.Model(&models.Session{}).Where("id = ?", sid).Update("revoked", true)
		}
	}
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.Status(http.StatusOK)
}

// Verify confirms the token is still valid and returns the caller.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}
	c.JSON(http.StatusOK, toUserResp(user))
}
