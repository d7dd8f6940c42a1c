package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

// PresetsController manages saved presets. The :ref path parameter is either
// a list index or a preset id.
type PresetsController struct {
	agent *agent.Agent
}

func NewPresetsController(a *agent.Agent) *PresetsController {
	return &PresetsController{agent: a}
}

// PresetView is a preset together with its current list position.
type PresetView struct {
	Index int `json:"index"`
	entities.Preset
}

// ListPresets handles GET /api/presets
func (pc *PresetsController) ListPresets(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := pc.agent.Presets(ctx)
	if err != nil {
		respondAgentError(c, err, "list presets")
		return
	}

	views := make([]PresetView, len(list))
	for i, p := range list {
		views[i] = PresetView{Index: i, Preset: p}
	}
	c.JSON(http.StatusOK, gin.H{"presets": views})
}

type CreatePresetRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatePreset handles POST /api/presets
// Snapshots the current day and night values under the given name.
func (pc *PresetsController) CreatePreset(c *gin.Context) {
	var req CreatePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondBadRequest(c, "name is required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	preset, err := pc.agent.CreatePreset(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		respondAgentError(c, err, "create preset")
		return
	}
	respondCreated(c, preset)
}

type UpdatePresetRequest struct {
	Name  string                `json:"name" binding:"required"`
	Day   entities.ColorSetting `json:"day"`
	Night entities.ColorSetting `json:"night"`
}

func (r UpdatePresetRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if err := r.Day.Validate(); err != nil {
		return fmt.Errorf("day: %w", err)
	}
	if err := r.Night.Validate(); err != nil {
		return fmt.Errorf("night: %w", err)
	}
	return nil
}

// UpdatePreset handles PUT /api/presets/:ref
func (pc *PresetsController) UpdatePreset(c *gin.Context) {
	var req UpdatePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ref := agent.ParsePresetRef(c.Param("ref"))
	if err := pc.agent.UpdatePreset(ctx, ref, strings.TrimSpace(req.Name), req.Day, req.Night); err != nil {
		respondAgentError(c, err, "update preset")
		return
	}
	respondSuccess(c, "preset updated", nil)
}

// DeletePreset handles DELETE /api/presets/:ref
func (pc *PresetsController) DeletePreset(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	removed, err := pc.agent.DeletePreset(ctx, agent.ParsePresetRef(c.Param("ref")))
	if err != nil {
		respondAgentError(c, err, "delete preset")
		return
	}
	respondSuccess(c, "preset deleted", removed)
}

// ApplyPreset handles POST /api/presets/:ref/apply
func (pc *PresetsController) ApplyPreset(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := pc.agent.ApplyPreset(ctx, agent.ParsePresetRef(c.Param("ref"))); err != nil {
		respondAgentError(c, err, "apply preset")
		return
	}
	respondSuccess(c, "preset applied", pc.agent.Status())
}

type ShortcutRequest struct {
	Shortcut string `json:"shortcut"`
}

// SetShortcut handles PUT /api/presets/:ref/shortcut
// An empty shortcut removes the binding.
func (pc *PresetsController) SetShortcut(c *gin.Context) {
	var req ShortcutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ref := agent.ParsePresetRef(c.Param("ref"))
	if err := pc.agent.SetPresetShortcut(ctx, ref, strings.TrimSpace(req.Shortcut)); err != nil {
		respondAgentError(c, err, "set preset shortcut")
		return
	}
	respondSuccess(c, "shortcut updated", nil)
}
