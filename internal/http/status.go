package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/controller"
	"github.com/mrlokans/redshift-manager/internal/status"
	"github.com/mrlokans/redshift-manager/internal/suncalc"
)

// StatusController exposes the runtime state and the top-level actions.
type StatusController struct {
	agent *agent.Agent
}

func NewStatusController(a *agent.Agent) *StatusController {
	return &StatusController{agent: a}
}

type StatusResponse struct {
	Status   status.Status           `json:"status"`
	State    controller.RuntimeState `json:"state"`
	NextTick *time.Time              `json:"next_tick,omitempty"`
}

// GetStatus handles GET /api/status
func (sc *StatusController) GetStatus(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	state, err := sc.agent.State(ctx)
	if err != nil {
		respondAgentError(c, err, "get state")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:   sc.agent.Status(),
		State:    state,
		NextTick: sc.agent.NextTick(),
	})
}

// Toggle handles POST /api/toggle
func (sc *StatusController) Toggle(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	enabled, err := sc.agent.Toggle(ctx)
	if err != nil {
		respondAgentError(c, err, "toggle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled, "status": sc.agent.Status()})
}

type EnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetEnabled handles PUT /api/enabled
func (sc *StatusController) SetEnabled(c *gin.Context) {
	var req EnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "enabled is required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := sc.agent.SetEnabled(ctx, *req.Enabled); err != nil {
		respondAgentError(c, err, "set enabled")
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled, "status": sc.agent.Status()})
}

// Reset handles POST /api/reset
func (sc *StatusController) Reset(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := sc.agent.Reset(ctx); err != nil {
		respondAgentError(c, err, "reset")
		return
	}
	respondSuccess(c, "display reset", sc.agent.Status())
}

type AdjustRequest struct {
	Temp       int `json:"temp"`
	Brightness int `json:"brightness"`
}

// Adjust handles POST /api/adjust with temperature and brightness deltas.
func (sc *StatusController) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Temp == 0 && req.Brightness == 0 {
		respondBadRequest(c, "temp or brightness delta is required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var err error
	if req.Temp != 0 {
		_, err = sc.agent.AdjustTemp(ctx, req.Temp)
	}
	if err == nil && req.Brightness != 0 {
		_, err = sc.agent.AdjustBrightness(ctx, req.Brightness)
	}
	if err != nil {
		respondAgentError(c, err, "adjust")
		return
	}

	cfg, err := sc.agent.Config(ctx)
	if err != nil {
		respondAgentError(c, err, "adjust")
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": cfg.Day, "status": sc.agent.Status()})
}

// SunTimes handles GET /api/sun?date=YYYY-MM-DD[&lat=..&lon=..]
// Without coordinates the configured location is used.
func (sc *StatusController) SunTimes(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondBadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	var (
		times suncalc.SunTimes
		err   error
	)
	latRaw, lonRaw := c.Query("lat"), c.Query("lon")
	if latRaw != "" || lonRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lon, lonErr := strconv.ParseFloat(lonRaw, 64)
		if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			respondBadRequest(c, "lat and lon must be valid coordinates")
			return
		}
		times, err = suncalc.Compute(lat, lon, date)
	} else {
		ctx, cancel := requestContext(c)
		defer cancel()
		times, err = sc.agent.SunTimes(ctx, date)
	}
	if err != nil {
		respondAgentError(c, err, "sun times")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    date.Format("2006-01-02"),
		"sunrise": times.Sunrise.String(),
		"sunset":  times.Sunset.String(),
	})
}
