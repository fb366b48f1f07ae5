package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spacemate/spacemate/internal/authorization"
)

type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

func (s *Server) ListOwnPayments(c *gin.Context) {
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	payments, err := s.paymentSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// MarkPaymentPaid settles a payment. Guests may only settle their own
// rows; staff may settle anyone's.
func (s *Server) MarkPaymentPaid(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payment id"))
		return
	}
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	payment, err := s.paymentSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !s.authorize(c, payment.PGPropertyID.String(), authorization.ObjectPayment, authorization.ActionPaymentSettle) {
		return
	}
	if payment.UserID != userID && !isStaffRole(s.roleFromSession(c)) {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settled, err := s.paymentSvc.MarkPaid(c.Request.Context(), id, req.PaymentMethod, req.TransactionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settled)
}
