package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/docket/internal/workflow"
	"github.com/kode4food/docket/pkg/api"
)

var (
	ErrInvalidJSON     = errors.New("invalid JSON payload")
	ErrSessionNotFound = errors.New("session not found")
)

func (s *Server) createSession(c *gin.Context) {
	var req api.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	sess, err := s.registry.Create(req.Role, req.SourceID, req.Fields)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.SessionCreatedResponse{
		SessionID: sess.ID(),
		Role:      sess.Role(),
	})
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("sessionID")
	if !s.registry.Delete(id) {
		notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "session closed",
	})
}

func (s *Server) selectCase(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req api.SelectCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	rec, err := sess.Fields().DecodeCase(req.Attributes)
	if err != nil {
		badRequest(c, err)
		return
	}

	sess.Select(rec)
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) clearSelection(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.Clear()
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) startAction(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req api.StartActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	if err := sess.StartAction(req.Action); err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) cancelAction(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	if err := sess.CancelAction(); err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) updateDrafts(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req api.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	if req.Note != nil {
		sess.SetNote(*req.Note)
	}
	if req.Reason != nil {
		sess.SetReason(*req.Reason)
	}
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) confirmAction(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	err := s.executor.Execute(c.Request.Context(), sess)
	if err == nil {
		c.JSON(http.StatusOK, sess.View())
		return
	}

	// The user navigated away mid-save; the mutation took effect remotely
	// but no feedback belongs to the selection that replaced it
	if errors.Is(err, workflow.ErrStaleSelection) {
		c.Status(http.StatusNoContent)
		return
	}

	if errors.Is(err, workflow.ErrValidationFailed) {
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusUnprocessableEntity,
		})
		return
	}

	if errors.Is(err, workflow.ErrRemoteRejected) ||
		errors.Is(err, workflow.ErrAmbiguousResponse) {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusBadGateway,
		})
		return
	}

	actionError(c, err)
}

func (s *Server) session(c *gin.Context) (*workflow.Session, bool) {
	id := c.Param("sessionID")
	sess, ok := s.registry.Get(id)
	if !ok {
		notFound(c, id)
		return nil, false
	}
	return sess, true
}

func actionError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, workflow.ErrSaveInFlight) ||
		errors.Is(err, workflow.ErrActionPending) {
		status = http.StatusConflict
	}
	c.JSON(status, api.ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:  err.Error(),
		Status: http.StatusBadRequest,
	})
}

func notFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %s", ErrSessionNotFound, id),
		Status: http.StatusNotFound,
	})
}
