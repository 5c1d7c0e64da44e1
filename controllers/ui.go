package controllers

import (
	"bytes"
	"net/http"

	"minimarket/dispatcher"
	"minimarket/render"

	"github.com/gin-gonic/gin"
)

// Index renders the admin shell with the tab from ?tab= open.
func (ct *Controller) Index(c *gin.Context) {
	q := c.Request.URL.Query()
	page := ct.ui.Page(c.Request.Context(), q.Get("tab"), render.ListParams(q), ct.ui.NoticeFrom(q))
	ct.html(c, http.StatusOK, "page", page)
}

// Table renders one module table as a fragment for the page script.
func (ct *Controller) Table(c *gin.Context) {
	table := ct.ui.Table(c.Request.Context(), c.Param("module"), render.ListParams(c.Request.URL.Query()))
	c.Header("Cache-Control", "no-store")
	ct.html(c, http.StatusOK, "table", table)
}

func (ct *Controller) NewForm(c *gin.Context) {
	f, err := ct.ui.Form(c.Request.Context(), c.Param("module"), 0)
	if err != nil {
		ct.htmlError(c, err)
		return
	}
	ct.html(c, http.StatusOK, "form", render.FormPage{Form: f})
}

func (ct *Controller) EditForm(c *gin.Context) {
	id, err := ParamID(c, "id")
	if err != nil {
		ct.htmlError(c, err)
		return
	}
	f, err := ct.ui.Form(c.Request.Context(), c.Param("module"), id)
	if err != nil {
		ct.htmlError(c, err)
		return
	}
	ct.html(c, http.StatusOK, "form", render.FormPage{Form: f})
}

// Submit handles both create (POST /ui/:module) and update
// (POST /ui/:module/:id). A rejected form comes back with 422.
func (ct *Controller) Submit(c *gin.Context) {
	var id int64
	if c.Param("id") != "" {
		var err error
		if id, err = ParamID(c, "id"); err != nil {
			ct.htmlError(c, err)
			return
		}
	}
	if err := c.Request.ParseForm(); err != nil {
		ct.htmlError(c, dispatcher.BadRequest("Formulario inválido"))
		return
	}

	out, err := ct.ui.Submit(c.Request.Context(), c.Param("module"), id, c.Request.PostForm)
	if err != nil {
		ct.htmlError(c, err)
		return
	}
	if out.Form != nil {
		n := out.Notice
		ct.html(c, http.StatusUnprocessableEntity, "form", render.FormPage{Form: *out.Form, Notice: &n})
		return
	}
	c.Redirect(http.StatusSeeOther, out.Redirect)
}

func (ct *Controller) Delete(c *gin.Context) {
	id, err := ParamID(c, "id")
	if err != nil {
		ct.htmlError(c, err)
		return
	}
	out := ct.ui.Remove(c.Request.Context(), c.Param("module"), id)
	c.Redirect(http.StatusSeeOther, out.Redirect)
}

func (ct *Controller) html(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := ct.ui.Execute(&buf, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Error al renderizar la página")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (ct *Controller) htmlError(c *gin.Context, err error) {
	status := dispatcher.StatusOf(err)
	if status >= http.StatusInternalServerError {
		ct.logger(c).Errorw("page failed", "path", c.Request.URL.Path, "error", err)
	}
	ct.html(c, status, "error", render.ErrorPage{
		Title:   "Error",
		Message: dispatcher.MessageOf(err),
		Back:    "/",
	})
}
