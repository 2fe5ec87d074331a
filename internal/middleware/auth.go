package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/util"
)

// CurrentUserKey is the context key under which the authenticated
// user is stored.
const CurrentUserKey = "currentUser"

// SessionIDKey is the context key for the id of the login session the
// request was authenticated with.
const SessionIDKey = "sessionID"

// AuthRequired validates the JWT and its login session, then puts the
// current user into the request context.
func AuthRequired(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query parameter ?token=xxx, for downloads where headers
		// cannot be set
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) httpOnly cookie, set at login
		if tokenStr == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.AbortFail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.AbortFail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
			return
		}

		var session models.Session
		if err := db.First(&session, "id = ?", claims.SessionID).Error; err != nil {
			util.AbortFail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
			return
		}
		if session.Revoked || session.ExpiresAt.Before(time.Now()) {
			util.AbortFail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.AbortFail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
			} else {
				util.AbortFail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
			}
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Set(SessionIDKey, session.ID)
		c.Next()
	}
}

// CurrentUser extracts the authenticated user placed by AuthRequired.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
