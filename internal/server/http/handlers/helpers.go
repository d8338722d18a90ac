package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/server/http/dto"
	"github.com/polkiloo/catering/internal/server/http/middleware"
)

const refreshMessage = "this order changed, please refresh"

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func roleFilter(c *gin.Context) (model.RoleFilter, bool) {
	filter, err := model.ParseRoleFilter(c.Query("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return "", false
	}
	return filter, true
}

// writeError translates domain errors into responses. Repeated requests that
// already took effect are acknowledged rather than failed.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrAlreadyPaid):
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "already_done"})
	case errors.Is(err, domainErrors.ErrOrderTerminal), errors.Is(err, domainErrors.ErrConflictingWrite):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: refreshMessage})
	case errors.Is(err, domainErrors.ErrForbiddenForRole):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrIllegalTransition),
		errors.Is(err, domainErrors.ErrNotYetAccepted),
		errors.Is(err, domainErrors.ErrUnknownStatus),
		errors.Is(err, domainErrors.ErrInvalidAmount):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}
