package notifier

import (
	"fmt"
	"net/http"
	"time"

	"github.com/example/orderdesk/pkg/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is the notification HTTP endpoint the dashboard calls.
type Service struct {
	config *config.NotifierConfig
	logger *zap.Logger
	sender Sender
	router *gin.Engine
}

func NewService(cfg *config.NotifierConfig, logger *zap.Logger, sender Sender) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	s := &Service{
		config: cfg,
		logger: logger,
		sender: sender,
		router: router,
	}
	s.setupRoutes()
	return s
}

func (s *Service) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/order-received", s.orderReceived)
		api.POST("/order-out-delivery", s.orderOutDelivery)
	}
}

// Router is exposed for the HTTP tests.
func (s *Service) Router() *gin.Engine {
	return s.router
}

func (s *Service) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("Notifier starting", zap.String("address", addr))
	return s.router.Run(addr)
}

func (s *Service) orderReceived(c *gin.Context) {
	var req SendRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	if req.PhoneNumber == "" || len(req.MessageBody) == 0 {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "phoneNumber and messageBody are required",
		})
		return
	}

	if err := s.sender.SendOrderReceived(c.Request.Context(), req.PhoneNumber, req.MessageBody); err != nil {
		s.logger.Error("Failed to send order-received message",
			zap.String("phone_number", req.PhoneNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Order details sent"})
}

func (s *Service) orderOutDelivery(c *gin.Context) {
	var req DeliveryRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	if req.PhoneNumber == "" || req.CustomerName == "" || req.DeliveryWindow == "" {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "phoneNumber, customerName, and deliveryWindow are required",
		})
		return
	}

	if err := s.sender.SendOrderArriving(c.Request.Context(), req.PhoneNumber, req.CustomerName, req.DeliveryWindow); err != nil {
		s.logger.Error("Failed to send out-for-delivery message",
			zap.String("phone_number", req.PhoneNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Delivery notice sent"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
