package server

import (
	"net/http"

	"github.com/example/orderdesk/pkg/models"
	"github.com/gin-gonic/gin"
)

type createCustomerRequest struct {
	Name           string `json:"name" binding:"required"`
	WhatsappNumber string `json:"whatsapp_number"`
	RewardPoint    int    `json:"reward_point"`
}

func (s *Server) listCustomers(c *gin.Context) {
	sess := s.sessions.Session(c.Request.Context(), c.Param("userId"))
	customers := sess.Customers.All()
	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
}

func (s *Server) getCustomer(c *gin.Context) {
	userID := c.Param("userId")
	sess := s.sessions.Session(c.Request.Context(), userID)

	customer, err := sess.Customers.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) createCustomer(c *gin.Context) {
	userID := c.Param("userId")

	var req createCustomerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	id, err := sess.Customers.Add(ctx, userID, models.Customer{
		Name:           req.Name,
		WhatsappNumber: req.WhatsappNumber,
		RewardPoint:    req.RewardPoint,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) updateCustomer(c *gin.Context) {
	userID := c.Param("userId")

	var patch models.CustomerPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	if err := sess.Customers.Update(ctx, userID, c.Param("id"), patch); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (s *Server) deleteCustomer(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	if err := sess.Customers.Delete(ctx, userID, c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
