package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"wisdomcard/internal/models/request_models"
	"wisdomcard/internal/services"
	"wisdomcard/internal/session"
	"wisdomcard/pkg/utils"
)

type WisdomController struct {
	sessionService services.SessionServiceInterface
}

func NewWisdomController(sessionService services.SessionServiceInterface) *WisdomController {
	return &WisdomController{
		sessionService: sessionService,
	}
}

// GET /api/meta
func (w *WisdomController) MetaHandler(c *gin.Context) {
	utils.RespondSuccess(c, w.sessionService.Meta(), "Fetched meta successfully")
}

// POST /api/sessions
func (w *WisdomController) CreateSessionHandler(c *gin.Context) {
	view := w.sessionService.Create()
	utils.RespondWithStatus(c, http.StatusCreated, view, "Session created")
}

// GET /api/sessions/:id
func (w *WisdomController) GetSessionHandler(c *gin.Context) {
	view, err := w.sessionService.View(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Fetched session successfully")
}

// PUT /api/sessions/:id/input
func (w *WisdomController) UpdateInputHandler(c *gin.Context) {
	var req request_models.UpdateInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := w.sessionService.SetInput(c.Param("id"), req.Input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Input updated")
}

// POST /api/sessions/:id/suggestions/:index
func (w *WisdomController) ApplySuggestionHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid suggestion index")
		return
	}

	view, err := w.sessionService.ApplySuggestion(c.Param("id"), index)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Suggestion applied")
}

// POST /api/sessions/:id/submit[?wait=true]
func (w *WisdomController) SubmitHandler(c *gin.Context) {
	var req request_models.SubmitQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	wait, err := strconv.ParseBool(c.DefaultQuery("wait", "false"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidWaitFlag)
		return
	}

	view, started, err := w.sessionService.Submit(c.Request.Context(), c.Param("id"), req.Input, wait)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	switch {
	case !started:
		utils.RespondSuccess(c, view, "Nothing to ask")
	case wait && view.State != string(session.StateLoading):
		utils.RespondSuccess(c, view, "Question answered")
	default:
		utils.RespondWithStatus(c, http.StatusAccepted, view, "Question accepted")
	}
}

// POST /api/sessions/:id/reset
func (w *WisdomController) ResetHandler(c *gin.Context) {
	view, err := w.sessionService.Reset(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Session reset")
}

// POST /api/sessions/:id/retry
func (w *WisdomController) RetryHandler(c *gin.Context) {
	view, err := w.sessionService.Retry(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Ready to retry")
}

// DELETE /api/sessions/:id
func (w *WisdomController) DeleteSessionHandler(c *gin.Context) {
	if err := w.sessionService.Delete(c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Session deleted")
}
