package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"CommerceAdapters/internal/domain/payment"
	"CommerceAdapters/internal/external/paymongo"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	provider payment.Provider
}

func NewPaymentHandler(p payment.Provider) *PaymentHandler {
	return &PaymentHandler{provider: p}
}

type sessionRequest struct {
	Data payment.SessionData `json:"data"`
}

type refundRequest struct {
	Data   payment.SessionData `json:"data"`
	Amount int64               `json:"amount"`
}

type capabilitiesResponse struct {
	Identifier  string               `json:"identifier"`
	Supported   []payment.Capability `json:"supported"`
	Unsupported []payment.Capability `json:"unsupported"`
}

func (h *PaymentHandler) Capabilities(c *gin.Context) {
	set := h.provider.Capabilities()
	c.JSON(http.StatusOK, capabilitiesResponse{
		Identifier:  h.provider.Identifier(),
		Supported:   set,
		Unsupported: set.Unsupported(),
	})
}

func (h *PaymentHandler) Initiate(c *gin.Context) {
	var in payment.InitiateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	res, err := h.provider.InitiatePayment(c.Request.Context(), in)
	respond(c, res, err)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	var in payment.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	res, err := h.provider.UpdatePayment(c.Request.Context(), in)
	respond(c, res, err)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	res, err := h.provider.RefundPayment(c.Request.Context(), req.Data, req.Amount)
	respond(c, res, err)
}

func (h *PaymentHandler) Authorize(c *gin.Context) { h.withSession(c, h.provider.AuthorizePayment) }
func (h *PaymentHandler) Capture(c *gin.Context)   { h.withSession(c, h.provider.CapturePayment) }
func (h *PaymentHandler) Cancel(c *gin.Context)    { h.withSession(c, h.provider.CancelPayment) }
func (h *PaymentHandler) Delete(c *gin.Context)    { h.withSession(c, h.provider.DeletePayment) }
func (h *PaymentHandler) Status(c *gin.Context)    { h.withSession(c, h.provider.GetPaymentStatus) }
func (h *PaymentHandler) Retrieve(c *gin.Context)  { h.withSession(c, h.provider.RetrievePayment) }

// Webhook verifies and classifies a vendor event. The body is read raw because the
// signature covers the exact bytes.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}

	res, err := h.provider.GetWebhookActionAndData(c.Request.Context(), payment.WebhookPayload{
		Body:      body,
		Signature: c.GetHeader(paymongo.SignatureHeader),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type sessionOp func(ctx context.Context, data payment.SessionData) (payment.PaymentResponse, error)

func (h *PaymentHandler) withSession(c *gin.Context, op sessionOp) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	res, err := op(c.Request.Context(), req.Data)
	respond(c, res, err)
}

func respond(c *gin.Context, res payment.PaymentResponse, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
