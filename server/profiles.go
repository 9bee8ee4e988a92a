package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/famtodo/internal/model"
)

// LookupsResponse carries the seeded lookup tables
type LookupsResponse struct {
	Priorities []model.Priority `json:"priorities"`
	Threats    []model.Threat   `json:"threats"`
	Statuses   []model.Status   `json:"statuses"`
}

// CreateProfileRequest is the body of POST /profiles
type CreateProfileRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleLookups(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		resp LookupsResponse
		err  error
	)
	if resp.Priorities, err = s.db.Priorities(ctx); err != nil {
		return respondError(c, err)
	}
	if resp.Threats, err = s.db.Threats(ctx); err != nil {
		return respondError(c, err)
	}
	if resp.Statuses, err = s.db.Statuses(ctx); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListProfiles(c echo.Context) error {
	profiles, err := s.db.Profiles(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

func (s *Server) handleCreateProfile(c echo.Context) error {
	var req CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	profile, err := s.db.CreateProfile(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, profile)
}
