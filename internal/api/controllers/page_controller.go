package controllers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"wisdomcard/internal/models/request_models"
	"wisdomcard/internal/models/response_models"
	"wisdomcard/internal/prompts"
	"wisdomcard/internal/services"
	"wisdomcard/internal/session"
	"wisdomcard/pkg/memcache"
	"wisdomcard/pkg/utils"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const SessionCookie = "wisdom_session"

var stateTemplates = map[string]string{
	string(session.StateIdle):    "idle.tmpl",
	string(session.StateLoading): "loading.tmpl",
	string(session.StateSuccess): "success.tmpl",
	string(session.StateError):   "error.tmpl",
}

type cardView struct {
	Ordinal string
	Card    response_models.CardWisdom
}

// PageTemplates parses the page templates for gin's HTML renderer.
func PageTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"lower": strings.ToLower,
		"cardView": func(i int, card any) cardView {
			v := cardView{Ordinal: response_models.CardOrdinal(i)}
			switch c := card.(type) {
			case response_models.CardWisdom:
				v.Card = c
			case *response_models.CardWisdom:
				v.Card = *c
			}
			return v
		},
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

type pageData struct {
	Theme   prompts.Theme
	View    response_models.SessionView
	Refresh int
}

type PageController struct {
	sessionService services.SessionServiceInterface
}

func NewPageController(sessionService services.SessionServiceInterface) *PageController {
	return &PageController{
		sessionService: sessionService,
	}
}

// GET /
func (p *PageController) IndexHandler(c *gin.Context) {
	view := p.currentSession(c)

	data := pageData{Theme: p.sessionService.Theme(), View: view}
	if view.State == string(session.StateLoading) {
		data.Refresh = int(prompts.LoadingMessageInterval.Seconds())
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, stateTemplates[view.State], data)
}

// POST /ask
func (p *PageController) AskHandler(c *gin.Context) {
	var req request_models.SubmitQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	id := p.currentSession(c).SessionID
	_, _, err := p.sessionService.Submit(c.Request.Context(), id, req.Input, false)
	if err != nil && !errors.Is(err, session.ErrResetRequired) {
		utils.HandleServiceError(c, err)
		return
	}
	p.backToIndex(c)
}

// POST /suggest/:index
func (p *PageController) SuggestHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid suggestion index")
		return
	}

	id := p.currentSession(c).SessionID
	if _, err := p.sessionService.ApplySuggestion(id, index); err != nil && !errors.Is(err, session.ErrInvalidTransition) {
		utils.HandleServiceError(c, err)
		return
	}
	p.backToIndex(c)
}

// POST /reset
func (p *PageController) ResetHandler(c *gin.Context) {
	id := p.currentSession(c).SessionID
	if _, err := p.sessionService.Reset(id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	p.backToIndex(c)
}

// POST /retry
func (p *PageController) RetryHandler(c *gin.Context) {
	id := p.currentSession(c).SessionID
	if _, err := p.sessionService.Retry(id); err != nil && !errors.Is(err, session.ErrInvalidTransition) {
		utils.HandleServiceError(c, err)
		return
	}
	p.backToIndex(c)
}

// currentSession resolves the visitor's session from the cookie, starting a
// new one when the cookie is missing or the session expired.
func (p *PageController) currentSession(c *gin.Context) response_models.SessionView {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		view, err := p.sessionService.View(id)
		if err == nil {
			return view
		}
		if !errors.Is(err, memcache.ErrSessionNotFound) {
			utils.Logger(c).Warn("session lookup failed", zap.Error(err))
		}
	}

	view := p.sessionService.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, view.SessionID, 0, "/", "", false, true)
	return view
}

func (p *PageController) backToIndex(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
