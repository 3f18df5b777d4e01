// Stats HTTP handlers.
//
// This file exposes the read-only analytics endpoints:
//   - GET /stats/{chat}   (windowed, bucketed message statistics)
//   - GET /health         (liveness)
//
// Handlers are transport-thin: they parse and strictly validate the query
// string, call the StatsService, and translate results and errors into HTTP
// responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-stats/internal/domain"
	"github.com/tbourn/go-chat-stats/internal/services"
	"github.com/tbourn/go-chat-stats/internal/utils"
)

// StatsService answers stats queries for the HTTP layer.
//
// Implementations must be safe for concurrent use and honor ctx.
type StatsService interface {
	Query(ctx context.Context, q domain.StatsQuery) (*domain.StatsResult, error)
}

// Handlers groups the HTTP endpoints of the stats API.
type Handlers struct {
	statsSvc StatsService
}

// New constructs and returns a Handlers instance bound to the given service.
func New(statsSvc StatsService) *Handlers {
	return &Handlers{statsSvc: statsSvc}
}

// statsParams lists the query parameters GET /stats accepts.
var statsParams = map[string]struct{}{
	"from":    {},
	"to":      {},
	"offset":  {},
	"user":    {},
	"weekday": {},
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health reports liveness.
//
// @Summary     Liveness probe
// @Tags        system
// @Produce     json
// @Success     200 {object} HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetStats godoc
// @Summary     Chat statistics
// @Description Returns daily, hourly and weekday message counts plus a per-user leaderboard for one chat.
// @Description Days are UTC epoch days shifted by offset hours. from and to must be given together.
// @Tags        stats
// @Produce     json
// @Param       chat    path  string true  "Chat alias (e.g. @golang) or public id"
// @Param       from    query int    false "First day (inclusive, epoch days)"
// @Param       to      query int    false "Last day (inclusive, epoch days)"
// @Param       offset  query int    false "UTC offset in hours, -12..12" default(0)
// @Param       user    query string false "Restrict to one user (public id)"
// @Param       weekday query int    false "Keep only this weekday, 0 = Monday .. 6 = Sunday"
// @Success     200 {object} domain.StatsResult
// @Failure     400 {object} ErrorResponse "invalid offset, dates, weekday or parameters"
// @Failure     404 {object} ErrorResponse "chat or user not found"
// @Failure     429 {object} ErrorResponse
// @Failure     500 {object} ErrorResponse
// @Router      /stats/{chat} [get]
func (h *Handlers) GetStats(c *gin.Context) {
	q, err := parseStatsQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidParams, err.Error())
		return
	}

	res, err := h.statsSvc.Query(c.Request.Context(), q)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			fail(c, http.StatusBadRequest, validationCode(ve), ve.Error())
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeChatNotFound, "chat not found")
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeUserNotFound, "user not found")
		default:
			failInternal(c, ErrCodeStatsFailed, err)
		}
		return
	}
	ok(c, http.StatusOK, res)
}

// parseStatsQuery turns the request into a StatsQuery. Unknown or repeated
// parameters and non-integer numbers are rejected here; range checks belong
// to the service.
func parseStatsQuery(c *gin.Context) (domain.StatsQuery, error) {
	q := domain.StatsQuery{Chat: strings.TrimSpace(c.Param("chat"))}
	if q.Chat == "" {
		return q, errors.New("chat: required")
	}

	values := c.Request.URL.Query()
	var unknown []string
	for k, vs := range values {
		if _, known := statsParams[k]; !known {
			unknown = append(unknown, k)
			continue
		}
		if len(vs) > 1 {
			return q, fmt.Errorf("%s: given more than once", k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return q, fmt.Errorf("unknown parameter %q", unknown[0])
	}

	var err error
	from, hasFrom := c.GetQuery("from")
	to, hasTo := c.GetQuery("to")
	if hasFrom != hasTo {
		return q, errors.New("from and to must be given together")
	}
	if q.From, err = utils.OptionalInt64(from, hasFrom); err != nil {
		return q, fmt.Errorf("from: %w", err)
	}
	if q.To, err = utils.OptionalInt64(to, hasTo); err != nil {
		return q, fmt.Errorf("to: %w", err)
	}

	off, err := utils.OptionalInt(c.GetQuery("offset"))
	if err != nil {
		return q, fmt.Errorf("offset: %w", err)
	}
	if off != nil {
		q.Offset = *off
	}

	if q.Weekday, err = utils.OptionalInt(c.GetQuery("weekday")); err != nil {
		return q, fmt.Errorf("weekday: %w", err)
	}

	if user, has := c.GetQuery("user"); has {
		q.User = strings.TrimSpace(user)
		if q.User == "" {
			return q, errors.New("user: empty")
		}
	}
	return q, nil
}

func validationCode(ve *services.ValidationError) string {
	switch {
	case errors.Is(ve.Err, services.ErrInvalidOffset):
		return ErrCodeInvalidOffset
	case errors.Is(ve.Err, services.ErrInvalidWeekday):
		return ErrCodeInvalidWeekday
	case errors.Is(ve.Err, services.ErrInvalidDates):
		return ErrCodeInvalidDates
	}
	return ErrCodeBadRequest
}
