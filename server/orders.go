package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/orderdesk/pkg/catalog"
	"github.com/example/orderdesk/pkg/inventory"
	"github.com/example/orderdesk/pkg/models"
	"github.com/example/orderdesk/pkg/notifier"
	"github.com/example/orderdesk/pkg/payment"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var validStatuses = map[string]bool{
	models.StatusPending:    true,
	models.StatusProcessing: true,
	models.StatusShipped:    true,
	models.StatusDelivered:  true,
	models.StatusCancelled:  true,
}

type createOrderRequest struct {
	CustomerID   string         `json:"customer_id" binding:"required"`
	OrderDate    time.Time      `json:"order_date" binding:"required"`
	Items        []catalog.Pick `json:"items" binding:"required,min=1,dive"`
	SendWhatsapp bool           `json:"send_whatsapp"`
}

type statusChangeRequest struct {
	Status         string `json:"status" binding:"required"`
	Persist        bool   `json:"persist"`
	Notify         bool   `json:"notify"`
	DeliveryWindow string `json:"delivery_window"`
}

type collectPaymentRequest struct {
	RedeemReward bool `json:"redeem_reward"`
}

func (s *Server) listOrders(c *gin.Context) {
	sess := s.sessions.Session(c.Request.Context(), c.Param("userId"))
	orders := sess.Orders.All()
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (s *Server) getOrder(c *gin.Context) {
	sess := s.sessions.Session(c.Request.Context(), c.Param("userId"))
	order, ok := sess.Orders.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// createOrder materializes the order lines from the catalog, persists
// the draft, then decrements stock best-effort and optionally notifies
// the customer. Stock failures are reported in the response, never
// rolled into a failed order.
func (s *Server) createOrder(c *gin.Context) {
	userID := c.Param("userId")

	var req createOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	customer, err := sess.Customers.GetByID(ctx, userID, req.CustomerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}

	items, err := catalog.BuildOrderItems(ctx, s.catalog, req.Items)
	if err != nil {
		s.logger.Error("Failed to materialize order items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve items"})
		return
	}

	draft := catalog.BuildDraftOrder(*customer, req.OrderDate, items)

	orderID, err := sess.Orders.Add(ctx, userID, draft)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create order"})
		return
	}

	picks := make([]inventory.ItemQuantity, 0, len(req.Items))
	for _, p := range req.Items {
		picks = append(picks, inventory.ItemQuantity{ItemID: p.ItemID, Quantity: p.Quantity})
	}
	stock := s.inventory.DecreaseStock(ctx, userID, picks)

	notified := false
	if req.SendWhatsapp && s.notify != nil && customer.WhatsappNumber != "" {
		body := notifier.OrderReceivedBody(customer.Name, orderID, req.OrderDate, items)
		if err := s.notify.OrderReceived(ctx, customer.WhatsappNumber, body); err != nil {
			s.logger.Warn("Order-received notification failed",
				zap.String("order_id", orderID), zap.Error(err))
		} else {
			notified = true
		}
	}

	order, _ := sess.Orders.Get(orderID)
	c.JSON(http.StatusCreated, gin.H{
		"id":        orderID,
		"order":     order,
		"inventory": stock,
		"notified":  notified,
	})
}

// updateOrder merges partial fields into the order through the session
// cache. This is the entry point that establishes the payment
// sub-record: setting payment.total_amount here is what makes an order
// collectable.
func (s *Server) updateOrder(c *gin.Context) {
	userID := c.Param("userId")
	orderID := c.Param("id")

	var patch models.OrderPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	if _, ok := sess.Orders.Get(orderID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if err := sess.Orders.Update(ctx, userID, orderID, patch); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update order"})
		return
	}

	updated, _ := sess.Orders.Get(orderID)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	userID := c.Param("userId")
	orderID := c.Param("id")

	var req statusChangeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	order, ok := sess.Orders.Get(orderID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	sess.Orders.StatusChange(orderID, req.Status)

	if req.Persist {
		status := req.Status
		if err := sess.Orders.Update(ctx, userID, orderID, models.OrderPatch{Status: &status}); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to persist status"})
			return
		}
	}

	notified := false
	if req.Notify && req.Status == models.StatusShipped && s.notify != nil && order.Customer.WhatsappNumber != "" {
		window := req.DeliveryWindow
		if window == "" {
			window = "today"
		}
		err := s.notify.OrderOutForDelivery(ctx, order.Customer.WhatsappNumber, order.Customer.Name, window)
		if err != nil {
			s.logger.Warn("Out-for-delivery notification failed",
				zap.String("order_id", orderID), zap.Error(err))
		} else {
			notified = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       orderID,
		"status":   req.Status,
		"notified": notified,
	})
}

// collectPayment settles the remaining balance on an order, applying
// reward redemption and accrual, and merges the result through the
// session order cache.
func (s *Server) collectPayment(c *gin.Context) {
	userID := c.Param("userId")
	orderID := c.Param("id")

	var req collectPaymentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := s.sessions.Session(ctx, userID)

	order, ok := sess.Orders.Get(orderID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	result, err := payment.CompletePayment(&order, req.RedeemReward, time.Now())
	if err != nil {
		if errors.Is(err, payment.ErrInvalidOrderState) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment failed"})
		return
	}

	if err := sess.Orders.Update(ctx, userID, orderID, result.Patch); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to persist payment"})
		return
	}

	updated, _ := sess.Orders.Get(orderID)
	c.JSON(http.StatusOK, gin.H{
		"order":            updated,
		"amount_collected": result.AmountCollected,
		"total_paid":       result.NewTotalPaid,
		"fully_paid":       result.FullyPaid,
		"reward_earned":    result.RewardEarned,
	})
}

func (s *Server) customerOrders(c *gin.Context) {
	sess := s.sessions.Session(c.Request.Context(), c.Param("userId"))
	orders := sess.Orders.OrdersByCustomer(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}
