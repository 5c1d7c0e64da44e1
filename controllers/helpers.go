package controllers

import (
	"strconv"
	"strings"

	"minimarket/dispatcher"

	"github.com/gin-gonic/gin"
)

// ParseID reads a positive id. Anything else is 0, which the dispatcher
// rejects as a missing id.
func ParseID(v string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// RouterID reads the id of a /router request: the path segment when
// present, else ?id=.
func RouterID(c *gin.Context) int64 {
	if v := c.Param("id"); v != "" {
		return ParseID(v)
	}
	return ParseID(c.Query("id"))
}

// ParamID reads the path parameter name.
func ParamID(c *gin.Context, name string) (int64, error) {
	v := c.Param(name)
	if v == "" {
		return 0, dispatcher.BadRequest(name + " es obligatorio")
	}
	id := ParseID(v)
	if id == 0 {
		return 0, dispatcher.BadRequest(name + " inválido")
	}
	return id, nil
}

// ucfirst matches the module labels of the success messages:
// "tipos_documento" becomes "Tipos_documento".
func ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
