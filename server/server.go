package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/orderdesk/pkg/catalog"
	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/inventory"
	"github.com/example/orderdesk/pkg/models"
	"github.com/example/orderdesk/pkg/notifier"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// CatalogSource is the slice of the item catalog the API needs.
type CatalogSource interface {
	catalog.ItemResolver
	ListItems(ctx context.Context) ([]models.Item, error)
}

// Server is the dashboard API.
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	sessions  *SessionManager
	inventory *inventory.Service
	catalog   CatalogSource
	notify    *notifier.Client
	router    *gin.Engine
}

func New(cfg *config.Config, logger *zap.Logger, sessions *SessionManager, inv *inventory.Service, cat CatalogSource, notify *notifier.Client) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config:    cfg,
		logger:    logger,
		sessions:  sessions,
		inventory: inv,
		catalog:   cat,
		notify:    notify,
		router:    router,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/items", s.listItems)

		user := v1.Group("/users/:userId")
		{
			user.POST("/session/reload", s.reloadSession)

			orders := user.Group("/orders")
			{
				orders.GET("", s.listOrders)
				orders.POST("", s.createOrder)
				orders.GET("/:id", s.getOrder)
				orders.PATCH("/:id", s.updateOrder)
				orders.PUT("/:id/status", s.updateOrderStatus)
				orders.POST("/:id/collect-payment", s.collectPayment)
			}

			customers := user.Group("/customers")
			{
				customers.GET("", s.listCustomers)
				customers.POST("", s.createCustomer)
				customers.GET("/:id", s.getCustomer)
				customers.PUT("/:id", s.updateCustomer)
				customers.DELETE("/:id", s.deleteCustomer)
				customers.GET("/:id/orders", s.customerOrders)
			}
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router is exposed for the HTTP tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) reloadSession(c *gin.Context) {
	userID := c.Param("userId")
	sess, err := s.sessions.Reload(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reload session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":    len(sess.Orders.All()),
		"customers": len(sess.Customers.All()),
	})
}

func (s *Server) listItems(c *gin.Context) {
	items, err := s.catalog.ListItems(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to list items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
