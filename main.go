package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	apirest "github.com/homeqr/server/api/rest"
	"github.com/homeqr/server/audit"
	"github.com/homeqr/server/cache"
	"github.com/homeqr/server/config"
	dbadapter "github.com/homeqr/server/db"
	"github.com/homeqr/server/hierarchy"
	mw "github.com/homeqr/server/middleware"
	"github.com/homeqr/server/model"
	"github.com/homeqr/server/qr"
	"github.com/homeqr/server/scheduler"
	"github.com/homeqr/server/schema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Audit ----
	var auditSvc *audit.Service
	if cfg.Audit.Enabled {
		auditSvc = audit.New(db, logger)
		defer auditSvc.Stop(context.Background())
	}

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- QR label generator ----
	qrgen, err := qr.NewGenerator(cfg.QR, c, logger)
	if err != nil {
		log.Fatalf("qr: %v", err)
	}

	// ---- Services ----
	hierSvc := hierarchy.NewService(db, logger)
	schemaSvc := schema.NewService(db, hierSvc, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("qr_prune", cfg.QR.PruneInterval, func() {
		qrgen.PruneOrphans(context.Background(), db)
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	nodeH := apirest.NewNodeHandler(hierSvc, qrgen)
	containerH := apirest.NewContainerHandler(hierSvc, qrgen, logger)
	itemH := apirest.NewItemHandler(schemaSvc, hierSvc)
	typeH := apirest.NewTypeHandler(schemaSvc, auditSvc)
	fieldH := apirest.NewFieldHandler(schemaSvc, auditSvc)
	searchH := apirest.NewSearchHandler(hierSvc)

	api := r.Group("/api")
	{
		nodesG := api.Group("/nodes")
		nodesG.GET("", nodeH.List)
		nodesG.POST("", nodeH.Create)
		nodesG.GET("/:id", nodeH.Detail)
		nodesG.DELETE("/:id", nodeH.Delete)

		containersG := api.Group("/containers")
		containersG.POST("", containerH.Create)
		containersG.GET("/:id", containerH.Detail)
		containersG.DELETE("/:id", containerH.Delete)
		containersG.GET("/:id/qr.png", containerH.QRPNG)
		containersG.POST("/:id/qr/refresh", containerH.RefreshQR)
		containersG.POST("/:id/move", containerH.Move)
		containersG.POST("/:id/items", itemH.Create)
		containersG.PUT("/:id/items/:item_id", itemH.Update)
		containersG.DELETE("/:id/items/:item_id", itemH.Delete)
		containersG.POST("/:id/items/:item_id/move", itemH.Move)

		itemsG := api.Group("/items")
		itemsG.GET("/:id", itemH.Detail)
		itemsG.POST("/values", itemH.Values)

		typesG := api.Group("/types")
		typesG.GET("", typeH.List)
		typesG.POST("", typeH.Create)
		typesG.PUT("/:id", typeH.Rename)
		typesG.DELETE("/:id", typeH.Delete)
		typesG.GET("/:id/fields", typeH.Fields)
		typesG.POST("/:id/fields", fieldH.Create)
		typesG.PUT("/:id/fields/:field_id", fieldH.Update)
		typesG.POST("/:id/fields/reorder", fieldH.Reorder)

		api.DELETE("/fields/:id", fieldH.Delete)

		api.GET("/search", searchH.Search)
	}

	// ---- Printed label files ----
	// The rendered PNGs double as a printable archive; serve them as-is.
	r.Static("/qrcodes", cfg.QR.Dir)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
