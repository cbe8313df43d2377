package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/urbannest/urbannest/dao/query"
	"github.com/urbannest/urbannest/internal/handler"
	"github.com/urbannest/urbannest/internal/middleware"
	"github.com/urbannest/urbannest/pkg/config"
	"github.com/urbannest/urbannest/pkg/mailer"
	"github.com/urbannest/urbannest/pkg/monitor"
	"github.com/urbannest/urbannest/pkg/objectstore"
	"github.com/urbannest/urbannest/pkg/projectctl"
	"github.com/urbannest/urbannest/pkg/sms"
)

const apiPrefix = "/v1"

type Backend struct {
	R *gin.Engine
}

func Register(store *objectstore.Client) *Backend {
	s := new(Backend)
	s.R = gin.Default()
	s.R.Use(monitor.RequestMetrics())

	// Health check for the deployment probe.
	s.R.GET("/v1/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})

	metricsPath := config.GetConfig().MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	s.R.GET(metricsPath, gin.WrapH(monitor.Handler()))

	s.RegisterService(store)

	s.R.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return s
}

func (b *Backend) RegisterService(store *objectstore.Client) {
	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("URBANNEST_FE_PORT")
		if fe != "" {
			url := "http://localhost:" + fe
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{url}
			corsConf.AllowHeaders = append(corsConf.AllowHeaders, "Authorization")
			b.R.Use(cors.New(corsConf))
		}
	}

	cfg := config.GetConfig()
	db := query.GetDB()
	registerConfig := &handler.RegisterConfig{
		DB:         db,
		Store:      store,
		Mailer:     mailer.New(cfg.SMTP),
		SMS:        sms.New(cfg.SMS),
		ProjectCtl: projectctl.NewController(db),
	}
	managers := registerManagers(registerConfig)

	publicRouter := b.R.Group(apiPrefix)

	protectedRouter := b.R.Group(apiPrefix)
	protectedRouter.Use(middleware.AuthProtected())

	adminRouter := b.R.Group(apiPrefix + "/admin")
	adminRouter.Use(middleware.AuthProtected(), middleware.AuthAdmin())

	for _, mgr := range managers {
		mgr.RegisterPublic(publicRouter)
		mgr.RegisterProtected(protectedRouter)
		mgr.RegisterAdmin(adminRouter)
	}
}
