package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Configuration returns the descriptor document as loaded, byte for byte
// when it came from the database or a JSON file.
func (ct *Controller) Configuration(c *gin.Context) {
	desc := ct.descriptors()
	if desc == nil {
		RespondError(c, "No se pudo obtener la configuración", http.StatusInternalServerError)
		return
	}
	b, err := desc.JSON()
	if err != nil {
		ct.logger(c).Errorw("encoding descriptors", "error", err)
		RespondError(c, "Error al obtener configuración: "+err.Error(), http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func (ct *Controller) Health(c *gin.Context) {
	desc := ct.descriptors()
	if desc == nil {
		RespondError(c, "descriptors not loaded", http.StatusServiceUnavailable)
		return
	}
	RespondSuccess(c, "ok", gin.H{
		"descriptors": desc.Source(),
		"modules":     len(desc.Modules()),
		"warnings":    len(desc.Warnings()),
	})
}
