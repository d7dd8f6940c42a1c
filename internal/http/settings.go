package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/settingsstore"
)

// maxImportSize limits uploaded configuration documents.
const maxImportSize = 1 << 20

// SettingsController serves the configuration, import/export and the export directory.
type SettingsController struct {
	agent         *agent.Agent
	settingsStore *settingsstore.SettingsStore
}

func NewSettingsController(a *agent.Agent, store *settingsstore.SettingsStore) *SettingsController {
	return &SettingsController{agent: a, settingsStore: store}
}

// GetConfig handles GET /api/config
func (sc *SettingsController) GetConfig(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	cfg, err := sc.agent.Config(ctx)
	if err != nil {
		respondAgentError(c, err, "get config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig handles PUT /api/config with a partial settings document.
func (sc *SettingsController) UpdateConfig(c *gin.Context) {
	var update agent.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cfg, err := sc.agent.UpdateSettings(ctx, update)
	if err != nil {
		respondAgentError(c, err, "update config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// DownloadExport handles GET /api/config/export
func (sc *SettingsController) DownloadExport(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	doc, err := sc.agent.Export(ctx)
	if err != nil {
		respondAgentError(c, err, "export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/json", doc.Data)
}

type ExportRequest struct {
	Dir string `json:"dir"`
}

// WriteExport handles POST /api/config/export
// Writes the export into the requested or the configured export directory.
func (sc *SettingsController) WriteExport(c *gin.Context) {
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	path, err := sc.agent.ExportToDir(ctx, strings.TrimSpace(req.Dir))
	if err != nil {
		respondAgentError(c, err, "export")
		return
	}
	respondSuccess(c, "configuration exported", gin.H{"path": path})
}

// Import handles POST /api/config/import
// The document is taken from a multipart "file" field, from the file named
// by the "path" query parameter, or from the raw request body.
func (sc *SettingsController) Import(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if path := c.Query("path"); path != "" {
		cfg, err := sc.agent.ImportFile(ctx, path)
		if err != nil {
			respondImportError(c, err)
			return
		}
		respondSuccess(c, "configuration imported", cfg)
		return
	}

	raw, source, err := readImportBody(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	cfg, err := sc.agent.ImportBytes(ctx, raw, source)
	if err != nil {
		respondImportError(c, err)
		return
	}
	respondSuccess(c, "configuration imported", cfg)
}

func readImportBody(c *gin.Context) ([]byte, string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, "", errors.New("file is required")
		}
		if header.Size > maxImportSize {
			return nil, "", errors.New("file too large")
		}
		f, err := header.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		raw, err := io.ReadAll(io.LimitReader(f, maxImportSize))
		if err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
		return raw, "upload:" + filepath.Base(header.Filename), nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize))
	if err != nil {
		return nil, "", errors.New("request body too large or unreadable")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, "", errors.New("request body is empty")
	}
	return raw, "request", nil
}

func respondImportError(c *gin.Context, err error) {
	if errors.Is(err, configstore.ErrIO) {
		respondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	respondAgentError(c, err, "import")
}

// GetExportDir handles GET /api/settings/export-dir
func (sc *SettingsController) GetExportDir(c *gin.Context) {
	if sc.settingsStore == nil {
		respondNotFound(c, "settings store")
		return
	}
	c.JSON(http.StatusOK, sc.settingsStore.GetExportDirInfo())
}

type ExportDirRequest struct {
	Path string `json:"path" binding:"required"`
}

// SetExportDir handles PUT /api/settings/export-dir
func (sc *SettingsController) SetExportDir(c *gin.Context) {
	if sc.settingsStore == nil {
		respondNotFound(c, "settings store")
		return
	}

	var req ExportDirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path is required")
		return
	}
	path := filepath.Clean(strings.TrimSpace(req.Path))
	if !filepath.IsAbs(path) {
		respondBadRequest(c, "path must be absolute")
		return
	}

	if err := sc.settingsStore.SetExportDir(path); err != nil {
		respondInternalError(c, err, "set export dir")
		return
	}
	c.JSON(http.StatusOK, sc.settingsStore.GetExportDirInfo())
}

// ClearExportDir handles DELETE /api/settings/export-dir
func (sc *SettingsController) ClearExportDir(c *gin.Context) {
	if sc.settingsStore == nil {
		respondNotFound(c, "settings store")
		return
	}
	if err := sc.settingsStore.ClearExportDir(); err != nil {
		respondInternalError(c, err, "clear export dir")
		return
	}
	c.JSON(http.StatusOK, sc.settingsStore.GetExportDirInfo())
}
