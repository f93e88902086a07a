package api

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/config"
	"github.com/autoforge/waitlist-api/pkg/logging"
	"github.com/autoforge/waitlist-api/pkg/models"
	"github.com/autoforge/waitlist-api/pkg/services"
	"github.com/autoforge/waitlist-api/pkg/validation"
)

const maxBodyBytes = 64 << 10

const (
	msgSignupOK       = "Successfully added to waitlist"
	msgInvalidEmail   = "Invalid email address"
	msgInternalError  = "Internal Server Error"
	msgTrackedOK      = "Purchase tracked successfully"
	msgTrackingFailed = "Tracking failed but request completed"
)

// StatusResponse is the body of every 200 response
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the body of 4xx/5xx responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	waitlistService services.WaitlistService
	purchaseService services.PurchaseService
	config          *config.Config
	log             *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	waitlistService services.WaitlistService,
	purchaseService services.PurchaseService,
	config *config.Config,
	log *zap.Logger,
) *Handlers {
	return &Handlers{
		waitlistService: waitlistService,
		purchaseService: purchaseService,
		config:          config,
		log:             log,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleSubmit adds an address to the waitlist
func (h *Handlers) HandleSubmit(c *gin.Context) {
	log := logging.FromContext(c.Request.Context(), h.log)

	body, err := readBody(c)
	if err != nil {
		log.Warn("error reading signup body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidEmail})
		return
	}

	req, err := validation.ParseSignup(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidEmail})
		return
	}

	if err := h.waitlistService.Signup(c.Request.Context(), req.Email); err != nil {
		log.Error("waitlist signup failed", zap.Error(err))
		resp := ErrorResponse{Error: msgInternalError}
		if h.config.IsDevelopment() {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Success: true,
		Message: msgSignupOK,
	})
}

// HandleTrackPurchase records a purchase event. Tracking problems never fail
// the request.
func (h *Handlers) HandleTrackPurchase(c *gin.Context) {
	log := logging.FromContext(c.Request.Context(), h.log)

	var form models.PurchaseForm
	body, err := readBody(c)
	if err == nil && len(body) > 0 {
		err = json.Unmarshal(body, &form)
	}
	if err != nil {
		log.Warn("ignoring unreadable purchase payload", zap.Error(err))
		form = models.PurchaseForm{}
	}

	result := h.purchaseService.Track(c.Request.Context(), form, sourceIP(c.Request))
	if result.OK() {
		c.JSON(http.StatusOK, StatusResponse{
			Success: true,
			Message: msgTrackedOK,
		})
		return
	}

	resp := StatusResponse{
		Success: false,
		Message: msgTrackingFailed,
	}
	if h.config.IsDevelopment() {
		resp.Error = result.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
}

// sourceIP takes X-Forwarded-For verbatim, whatever the trusted proxies, and
// falls back to the connection's remote host.
func sourceIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if r.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
