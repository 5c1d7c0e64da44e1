package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"minimarket/db"
	"minimarket/dispatcher"
	"minimarket/queries"
	"minimarket/render"

	"github.com/gin-gonic/gin"
)

// Dispatch serves /router: the module comes from ?module=, the id from
// the path or ?id=, the operation from the HTTP method. OPTIONS always
// answers 200.
func (ct *Controller) Dispatch(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		RespondSuccess(c, "OK", nil)
		return
	}

	module := queries.NormalizeModule(c.Query("module"))
	if err := ct.backend.Check(module); err != nil {
		ct.fail(c, module, err)
		return
	}

	ctx := c.Request.Context()
	switch c.Request.Method {
	case http.MethodGet:
		page, err := ct.backend.List(ctx, module, render.ListParams(c.Request.URL.Query()))
		if err != nil {
			ct.fail(c, module, err)
			return
		}
		if page.Data == nil {
			page.Data = []db.Row{}
		}
		RespondSuccess(c, "Datos obtenidos", gin.H{
			"data":       page.Data,
			"total":      page.Total,
			"page":       page.Page,
			"limit":      page.Limit,
			"totalPages": page.TotalPages,
		})

	case http.MethodPost:
		payload, ok := ct.body(c)
		if !ok {
			return
		}
		id, err := ct.backend.Create(ctx, module, payload)
		if err != nil {
			ct.fail(c, module, err)
			return
		}
		Respond(c, http.StatusCreated, ucfirst(module)+" creado exitosamente", gin.H{"id": id})

	case http.MethodPut:
		id := RouterID(c)
		var payload map[string]any
		if id > 0 {
			var ok bool
			if payload, ok = ct.body(c); !ok {
				return
			}
		}
		if err := ct.backend.Update(ctx, module, id, payload); err != nil {
			ct.fail(c, module, err)
			return
		}
		RespondSuccess(c, ucfirst(module)+" actualizado exitosamente", nil)

	case http.MethodDelete:
		if err := ct.backend.Delete(ctx, module, RouterID(c)); err != nil {
			ct.fail(c, module, err)
			return
		}
		RespondSuccess(c, ucfirst(module)+" eliminado exitosamente", nil)

	default:
		RespondError(c, "Método no permitido", http.StatusMethodNotAllowed)
	}
}

// body decodes a non-empty JSON object. Anything else answers 400 with
// the raw input echoed back.
func (ct *Controller) body(c *gin.Context) (map[string]any, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		ct.fail(c, "", err)
		return nil, false
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || len(payload) == 0 {
		RespondError(c, "Datos JSON inválidos. Input recibido: "+string(raw), http.StatusBadRequest)
		return nil, false
	}
	return payload, true
}

func (ct *Controller) fail(c *gin.Context, module string, err error) {
	status := dispatcher.StatusOf(err)
	msg := dispatcher.MessageOf(err)

	var de *dispatcher.Error
	if !errors.As(err, &de) {
		msg = "Error: " + msg
	}
	if status >= http.StatusInternalServerError {
		ct.logger(c).Errorw("request failed", "module", module, "method", c.Request.Method, "status", status, "error", err)
	} else {
		ct.logger(c).Debugw("request rejected", "module", module, "method", c.Request.Method, "status", status, "message", msg)
	}
	RespondError(c, msg, status)
}
