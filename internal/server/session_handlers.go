package server

import (
	"net/http"

	"github.com/carcarahealth/glica/internal/session"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSessionCreate(c *gin.Context) {
	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) handleSessionGet(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleSessionDelete(c *gin.Context) {
	if err := s.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// withSession loads the session, applies fn and saves the result when fn
// succeeds.
func (s *Server) withSession(c *gin.Context, fn func(sess *session.Session) error) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := fn(sess); err != nil {
		respondError(c, err)
		return
	}
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type intakeRequest struct {
	FastMode bool `json:"fastMode"`
}

func (s *Server) handleSessionIntake(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s.withSession(c, func(sess *session.Session) error {
		return sess.StartIntake(req.FastMode)
	})
}

type openEntryRequest struct {
	EntryID string `json:"entryId"`
}

func (s *Server) handleSessionOpenEntry(c *gin.Context) {
	var req openEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s.withSession(c, func(sess *session.Session) error {
		return sess.OpenEntry(req.EntryID)
	})
}

type navigateRequest struct {
	Screen session.Screen `json:"screen"`
}

func (s *Server) handleSessionNavigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s.withSession(c, func(sess *session.Session) error {
		return sess.Transition(req.Screen)
	})
}

func (s *Server) handleSessionHome(c *gin.Context) {
	s.withSession(c, func(sess *session.Session) error {
		sess.GoHome()
		return nil
	})
}
