package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"voxrelay/internal/models"
	"voxrelay/internal/telegram"
)

// Dispatcher accepts normalized updates without blocking.
type Dispatcher interface {
	Submit(update models.Update) bool
}

// Handler wires the webhook endpoint to the update dispatcher.
type Handler struct {
	dispatcher  Dispatcher
	webhookPath string
}

// NewHandler constructs a Handler instance.
func NewHandler(dispatcher Dispatcher, webhookPath string) *Handler {
	if webhookPath == "" {
		webhookPath = "/webhook"
	}
	return &Handler{
		dispatcher:  dispatcher,
		webhookPath: webhookPath,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST(h.webhookPath, h.processUpdate)
	router.GET("/healthz", h.health)
}

// processUpdate acknowledges every delivery with {"status":"ok"};
// downstream outcomes reach the user as reply messages, never through
// the webhook response.
func (h *Handler) processUpdate(c *gin.Context) {
	var raw telegram.Update
	if err := c.ShouldBindJSON(&raw); err != nil {
		log.Printf("malformed webhook payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	update, ok := Normalize(&raw)
	if ok {
		if !h.dispatcher.Submit(update) {
			log.Printf("update queue full, dropping update %d", raw.UpdateID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
