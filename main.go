package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"reach-radar/config"
	"reach-radar/models"
	"reach-radar/providers"
	"reach-radar/providers/ansm"
	"reach-radar/providers/echa"
	"reach-radar/providers/eurlex"
	"reach-radar/services"
	"reach-radar/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	alertsCreatedCounter prometheus.Counter
	alertEmailsCounter   prometheus.Counter
)

func init() {
	alertsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Total number of new regulatory alerts persisted.",
		},
	)
	alertEmailsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_emails_sent_total",
			Help: "Total number of alert summary emails sent.",
		},
	)
	prometheus.MustRegister(alertsCreatedCounter, alertEmailsCounter)
}

// userAuthMiddleware löst den X-API-KEY Header zu einem Mandanten auf.
func userAuthMiddleware(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing API Key"})
			return
		}

		var user models.User
		if err := db.Where("api_token = ?", apiKey).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Error("DB error during API key lookup", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// cronAuthMiddleware prüft das Shared Secret des externen Schedulers.
// Bei Mismatch startet der Lauf gar nicht erst.
func cronAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || token != cfg.CronSecret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid scheduler token"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(
		&models.User{}, &models.Ingredient{}, &models.Alert{},
		&models.Document{}, &models.Invite{},
	); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup Providers
	enabledSourceNames := strings.Split(cfg.EnabledSources, ",")
	var enabledProviders []providers.Provider
	for _, name := range enabledSourceNames {
		switch strings.TrimSpace(name) {
		case "echa":
			enabledProviders = append(enabledProviders, echa.NewFetcher(cfg, logging))
		case "eurlex":
			enabledProviders = append(enabledProviders, eurlex.NewFetcher(cfg, logging))
		case "ansm":
			enabledProviders = append(enabledProviders, ansm.NewFetcher(cfg, logging))
		default:
			logging.Warn("Unknown source in config", zap.String("source_name", name))
		}
	}
	if len(enabledProviders) == 0 {
		logging.Fatal("No valid sources enabled. Check ENABLED_SOURCES in .env")
	}
	logging.Info("Active sources loaded", zap.Strings("sources", enabledSourceNames))

	// Setup Services
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	normalizer := services.NewSourceNormalizer(logging, enabledProviders, cfg.SourceTimeout)
	notifier := services.NewEmailNotifier(cfg, logging)
	checkService := services.NewCheckService(cfg, db, logging, normalizer, notifier)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupUserRoutes(router, db, logging)
	setupInviteAcceptRoute(router, db, logging)
	setupScheduledCheckRoute(router, cfg, checkService, logging)

	authed := router.Group("/", userAuthMiddleware(db, logging))
	setupIngredientRoutes(authed, db, logging)
	setupAlertRoutes(authed, db, logging)
	setupDocumentRoutes(authed, db, s3Client, cfg, logging)
	setupInviteRoutes(authed, db, logging)
	setupCheckRoutes(authed, checkService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled compliance check...")
		result, err := checkService.RunForAllUsers(context.Background())
		if err != nil {
			logging.Error("Scheduled check failed", zap.Error(err))
			return
		}
		alertsCreatedCounter.Add(float64(result.AlertsCreated))
		alertEmailsCounter.Add(float64(result.NotificationsSent))
		logging.Info("Scheduled check completed",
			zap.Int("users_checked", result.UsersChecked),
			zap.Int("alerts_created", result.AlertsCreated))
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupUserRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/users")

	// Offene Registrierung; der API-Token wird genau einmal zurückgegeben.
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required,email"`
			CompanyName string `json:"company_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user := models.User{
			Email:       req.Email,
			CompanyName: req.CompanyName,
			Plan:        "free",
			APIToken:    uuid.NewString(),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Error("Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": user, "api_token": user.APIToken})
	})
}

func setupIngredientRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	ig := rg.Group("/ingredients")

	ig.GET("/", func(c *gin.Context) {
		user := currentUser(c)
		var ingredients []models.Ingredient
		if err := db.Where("owner_id = ?", user.ID).Order("id").Find(&ingredients).Error; err != nil {
			log.Error("Database query for ingredients failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, ingredients)
	})

	ig.POST("/", func(c *gin.Context) {
		user := currentUser(c)
		var ingredient models.Ingredient
		if err := c.ShouldBindJSON(&ingredient); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		// Plan-Kontingent prüfen (einfache Lookup-Tabelle, keine Billing-Logik)
		limit := models.MaxIngredients(user.Plan)
		if limit >= 0 {
			var count int64
			if err := db.Model(&models.Ingredient{}).Where("owner_id = ?", user.ID).Count(&count).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
			if count >= int64(limit) {
				c.JSON(http.StatusForbidden, gin.H{
					"error": fmt.Sprintf("ingredient limit reached for plan %q (%d)", user.Plan, limit),
				})
				return
			}
		}

		ingredient.ID = 0
		ingredient.OwnerID = user.ID
		if err := db.Create(&ingredient).Error; err != nil {
			log.Error("Failed to create ingredient", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ingredient"})
			return
		}
		c.JSON(http.StatusCreated, ingredient)
	})

	ig.DELETE("/:id", func(c *gin.Context) {
		user := currentUser(c)
		res := db.Where("owner_id = ?", user.ID).Delete(&models.Ingredient{}, c.Param("id"))
		if res.Error != nil {
			log.Error("Failed to delete ingredient", zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ingredient"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
}

func setupAlertRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	ag := rg.Group("/alerts")

	ag.GET("/", func(c *gin.Context) {
		user := currentUser(c)

		query := db.Where("owner_id = ?", user.ID)
		if c.Query("unread") == "true" {
			query = query.Where("is_read = ?", false)
		}

		var alerts []models.Alert
		if err := query.Order("created_at desc").Find(&alerts).Error; err != nil {
			log.Error("Database query for alerts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, alerts)
	})

	ag.PATCH("/:id/read", func(c *gin.Context) {
		user := currentUser(c)
		res := db.Model(&models.Alert{}).
			Where("owner_id = ? AND id = ?", user.ID, c.Param("id")).
			Update("is_read", true)
		if res.Error != nil {
			log.Error("Failed to mark alert as read", zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
	})
}

func setupDocumentRoutes(rg *gin.RouterGroup, db *gorm.DB, s3Client *s3.Client, cfg *config.Config, log *zap.Logger) {
	dg := rg.Group("/documents")

	// Multipart-Upload; die Datei geht ins S3, die Metadaten in die DB.
	dg.POST("/", func(c *gin.Context) {
		user := currentUser(c)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'file' form field"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		key := fmt.Sprintf("docs/%d/%d-%s", user.ID, time.Now().UnixNano(), fileHeader.Filename)
		link, err := storage.UploadDocument(c.Request.Context(), s3Client, cfg, key, contentType, data)
		if err != nil {
			log.Error("S3 upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		doc := models.Document{
			OwnerID:     user.ID,
			FileName:    fileHeader.Filename,
			ContentType: contentType,
			SizeBytes:   fileHeader.Size,
			S3Link:      link,
		}
		if err := db.Create(&doc).Error; err != nil {
			log.Error("Failed to save document metadata", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save document"})
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	dg.GET("/", func(c *gin.Context) {
		user := currentUser(c)
		var docs []models.Document
		if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&docs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, docs)
	})
}

func setupInviteRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	ig := rg.Group("/invites")

	ig.POST("/", func(c *gin.Context) {
		user := currentUser(c)
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		invite := models.Invite{
			OwnerID: user.ID,
			Email:   req.Email,
			Token:   uuid.NewString(),
		}
		if err := db.Create(&invite).Error; err != nil {
			log.Error("Failed to create invite", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invite"})
			return
		}
		c.JSON(http.StatusCreated, invite)
	})

	ig.GET("/", func(c *gin.Context) {
		user := currentUser(c)
		var invites []models.Invite
		if err := db.Where("owner_id = ?", user.ID).Find(&invites).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, invites)
	})
}

// setupInviteAcceptRoute ist offen erreichbar: die eingeladene Person hat
// noch keinen API-Token. Der Invite-Token wird beim Annehmen entwertet.
func setupInviteAcceptRoute(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	router.POST("/invites/accept", func(c *gin.Context) {
		var req struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		var invite models.Invite
		if err := db.Where("token = ? AND accepted = ?", req.Token, false).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "invite not found or already accepted"})
				return
			}
			log.Error("DB error during invite lookup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var owner models.User
		if err := db.First(&owner, invite.OwnerID).Error; err != nil {
			log.Error("DB error loading inviting user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		member := models.User{
			Email:       invite.Email,
			CompanyName: owner.CompanyName,
			Plan:        owner.Plan,
			APIToken:    uuid.NewString(),
		}
		if err := db.Create(&member).Error; err != nil {
			log.Error("Failed to create member from invite", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept invite"})
			return
		}

		if err := db.Model(&invite).Update("accepted", true).Error; err != nil {
			log.Warn("Failed to mark invite as accepted", zap.Error(err))
		}

		c.JSON(http.StatusCreated, gin.H{"user": member, "api_token": member.APIToken})
	})
}

func setupCheckRoutes(rg *gin.RouterGroup, checkService *services.CheckService, log *zap.Logger) {
	cg := rg.Group("/checks")

	// On-Demand-Abgleich für den authentifizierten Mandanten.
	cg.POST("/run", func(c *gin.Context) {
		user := currentUser(c)

		result, err := checkService.RunForUser(c.Request.Context(), user)
		if err != nil {
			log.Error("On-demand check failed", zap.Uint("owner_id", user.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "check failed"})
			return
		}

		alertsCreatedCounter.Add(float64(result.AlertsCreated))
		if result.EmailSent {
			alertEmailsCounter.Inc()
		}
		c.JSON(http.StatusOK, result)
	})
}

// setupScheduledCheckRoute konfiguriert den Batch-Endpunkt für den externen
// Scheduler. Idempotent und parallel aufrufbar: ein Retry nach Teilfehlern
// legt nur die fehlenden Alerts nach, nie Duplikate.
func setupScheduledCheckRoute(router *gin.Engine, cfg *config.Config, checkService *services.CheckService, log *zap.Logger) {
	router.POST("/checks/run-all", cronAuthMiddleware(cfg), func(c *gin.Context) {
		result, err := checkService.RunForAllUsers(c.Request.Context())
		if err != nil {
			log.Error("Batch check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "batch check failed"})
			return
		}

		alertsCreatedCounter.Add(float64(result.AlertsCreated))
		alertEmailsCounter.Add(float64(result.NotificationsSent))
		c.JSON(http.StatusOK, result)
	})
}
