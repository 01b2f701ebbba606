package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"musfit/sentinel"
	"musfit/services/enrollment"
	"musfit/services/event"
	"musfit/services/membership"
	"musfit/services/user"
)

type Server struct {
	Users       user.Service
	Events      event.Service
	Memberships membership.Service
	Enrollments enrollment.Service
}

func NewServer(users user.Service, events event.Service, memberships membership.Service, enrollments enrollment.Service) *Server {
	return &Server{
		Users:       users,
		Events:      events,
		Memberships: memberships,
		Enrollments: enrollments,
	}
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.GET("/ping", s.GetPing)

	r.POST("/users", s.CreateUser)
	r.GET("/users/:userId", s.GetUser)
	r.PATCH("/users/:userId", s.EditUser)
	r.DELETE("/users/:userId", s.DeleteUser)

	r.POST("/events", s.CreateEvent)
	r.GET("/events", s.ListEvents)
	r.GET("/events/:eventId", s.GetEvent)
	r.DELETE("/events/:eventId", s.DeleteEvent)

	r.POST("/events/:eventId/enrollments", s.Enroll)
	r.POST("/events/:eventId/enrollments/:userId/confirm", s.ConfirmEnrollment)
	r.POST("/events/:eventId/enrollments/:userId/expire", s.ExpireEnrollment)
	r.DELETE("/events/:eventId/enrollments/:userId", s.CancelEnrollment)

	r.POST("/memberships", s.CreateMembership)
	r.GET("/memberships", s.ListMemberships)
	r.GET("/memberships/:name", s.GetMembership)
}

// GetPing (GET /ping)
func (s *Server) GetPing(c *gin.Context) {
	c.JSON(http.StatusOK, Pong{Ping: "pong"})
}

// CreateUser (POST /users)
func (s *Server) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	u, err := s.Users.CreateProfile(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Birthdate, req.Gender, req.Membership)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TransformUser(u))
}

// GetUser (GET /users/{userId})
func (s *Server) GetUser(c *gin.Context) {
	u, err := s.Users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransformUser(u))
}

// EditUser (PATCH /users/{userId})
func (s *Server) EditUser(c *gin.Context) {
	var req EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	if err := s.Users.EditUser(c.Request.Context(), c.Param("userId"), req.Field, req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser (DELETE /users/{userId})
func (s *Server) DeleteUser(c *gin.Context) {
	if err := s.Users.DeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateEvent (POST /events)
func (s *Server) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	e, err := s.Events.CreateSingularEvent(c.Request.Context(), req.EventName, req.Gender, req.Sport, req.StartTime, req.Duration, req.Capacity, req.Tags)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TransformEvent(e))
}

// ListEvents (GET /events?tag=...)
func (s *Server) ListEvents(c *gin.Context) {
	events, err := s.Events.ListByTag(c.Request.Context(), c.Query("tag"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, TransformEvent(&events[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetEvent (GET /events/{eventId})
func (s *Server) GetEvent(c *gin.Context) {
	e, err := s.Events.GetEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransformEvent(e))
}

// DeleteEvent (DELETE /events/{eventId})
func (s *Server) DeleteEvent(c *gin.Context) {
	if err := s.Events.DeleteEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Enroll (POST /events/{eventId}/enrollments)
func (s *Server) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	ticket, err := s.Enrollments.Enroll(c.Request.Context(), c.Param("eventId"), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TransformTicket(ticket))
}

// ConfirmEnrollment (POST /events/{eventId}/enrollments/{userId}/confirm)
func (s *Server) ConfirmEnrollment(c *gin.Context) {
	ticket, err := s.Enrollments.ConfirmPending(c.Request.Context(), c.Param("eventId"), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransformTicket(ticket))
}

// ExpireEnrollment (POST /events/{eventId}/enrollments/{userId}/expire)
func (s *Server) ExpireEnrollment(c *gin.Context) {
	if err := s.Enrollments.ExpirePending(c.Request.Context(), c.Param("eventId"), c.Param("userId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelEnrollment (DELETE /events/{eventId}/enrollments/{userId})
func (s *Server) CancelEnrollment(c *gin.Context) {
	if err := s.Enrollments.Cancel(c.Request.Context(), c.Param("eventId"), c.Param("userId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateMembership (POST /memberships)
func (s *Server) CreateMembership(c *gin.Context) {
	var req CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: err.Error()})
		return
	}
	m, err := s.Memberships.CreateMembershipType(c.Request.Context(), req.Name, req.TokenProfile, req.Period, req.Price)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TransformMembership(m))
}

// ListMemberships (GET /memberships)
func (s *Server) ListMemberships(c *gin.Context) {
	memberships, err := s.Memberships.ListMemberships(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]MembershipResponse, 0, len(memberships))
	for i := range memberships {
		out = append(out, TransformMembership(&memberships[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetMembership (GET /memberships/{name})
func (s *Server) GetMembership(c *gin.Context) {
	m, err := s.Memberships.GetMembership(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransformMembership(m))
}

// writeError maps sentinel errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, sentinel.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, sentinel.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, sentinel.ErrAlreadyExists):
		code = http.StatusConflict
	case errors.Is(err, sentinel.ErrFieldNotEditable), errors.Is(err, sentinel.ErrReferentialGap):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, sentinel.ErrUnavailable):
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, Error{Error: err.Error()})
}
