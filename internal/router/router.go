package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/config"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/handler"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/middleware"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/store"
)

// SetupRouter wires the Gin engine and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	finanzaStore := store.NewFinanzaStore(db)
	metaStore := store.NewMetaStore(db)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(jwtSecret, db))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/verify", authHandler.Verify)
	protected.GET("/profile", authHandler.Profile)

	finanzaHandler := handler.NewFinanzaHandler(finanzaStore)
	protected.GET("/finanzas", finanzaHandler.List)
	protected.POST("/finanzas", finanzaHandler.Create)
	protected.GET("/finanzas/:id", finanzaHandler.Get)
	protected.PUT("/finanzas/:id", finanzaHandler.Update)
	protected.DELETE("/finanzas/:id", finanzaHandler.Delete)
	protected.GET("/finanzasBalance", finanzaHandler.Balance)
	protected.GET("/finanzasPeriodo", finanzaHandler.BalancePeriodo)

	metaHandler := handler.NewMetaHandler(metaStore)
	protected.GET("/metas", metaHandler.List)
	protected.POST("/metas", metaHandler.Create)
	protected.GET("/metas/:id", metaHandler.Get)
	protected.PUT("/metas/:id", metaHandler.Update)
	protected.PUT("/metas/:id/ahorro", metaHandler.UpdateAhorro)
	protected.DELETE("/metas/:id", metaHandler.Delete)

	historialHandler := handler.NewHistorialHandler(finanzaStore)
	protected.GET("/historial", historialHandler.Get)
	protected.GET("/historial/descargar", historialHandler.Descargar)

	return r
}
