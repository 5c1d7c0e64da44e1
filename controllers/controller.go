package controllers

import (
	"net/http"
	"time"

	"minimarket/configuration"
	"minimarket/logger"
	"minimarket/render"

	"github.com/gin-gonic/gin"
)

// Backend is the dispatcher as seen by the handlers.
type Backend interface {
	render.Backend
	Check(module string) error
}

// Controller holds what the handlers share: the dispatcher, the admin
// renderer and the process logger.
type Controller struct {
	backend Backend
	ui      *render.Renderer
	log     logger.Logger
}

func New(backend Backend, ui *render.Renderer, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{backend: backend, ui: ui, log: log}
}

func (ct *Controller) descriptors() *configuration.Descriptors {
	if ct.ui == nil {
		return nil
	}
	return ct.ui.Descriptors()
}

func (ct *Controller) logger(c *gin.Context) logger.Logger {
	return logger.From(c, ct.log)
}

// Respond writes the envelope shared by every JSON answer; data keys are
// merged at the top level.
func Respond(c *gin.Context, code int, msg string, data gin.H) {
	body := gin.H{
		"success":   code >= 200 && code < 300,
		"message":   msg,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(code, body)
}

func RespondError(c *gin.Context, msg string, code int) {
	Respond(c, code, msg, nil)
}

func RespondSuccess(c *gin.Context, msg string, payload gin.H) {
	Respond(c, http.StatusOK, msg, payload)
}
