package export

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethanbaker/fanchat/internal/sheets"
	"github.com/ethanbaker/fanchat/internal/stores/transcript"
	"github.com/ethanbaker/fanchat/pkg/export"
	"github.com/ethanbaker/fanchat/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller serves transcript exports
type Controller struct {
	store  transcript.Store
	sheets *sheets.Service
}

// New creates the export controller. sheetsService may be nil, which
// disables Drive uploads
func New(store transcript.Store, sheetsService *sheets.Service) *Controller {
	return &Controller{
		store:  store,
		sheets: sheetsService,
	}
}

// ExportCSV handles GET requests to download a session transcript as CSV.
// Query parameters: mode (plain | keyword_split) and max_keywords
func (ctl *Controller) ExportCSV(c *gin.Context) {
	sess, ok := ctl.findSession(c)
	if !ok {
		return
	}

	config, err := parseConfig(c.Query("mode"), c.Query("max_keywords"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid export parameters", err.Error()).AsGinResponse())
		return
	}

	data, err := export.Export(sess.Transcript(), config).CSV()
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to serialize export", err.Error()).AsGinResponse())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(sess, config.Mode)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportToDrive handles POST requests to run an export and upload it to a
// Drive folder
func (ctl *Controller) ExportToDrive(c *gin.Context) {
	if ctl.sheets == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Drive uploads are not configured", nil).AsGinResponse())
		return
	}

	sess, ok := ctl.findSession(c)
	if !ok {
		return
	}

	// Parse request body
	var req sdk.DriveExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	var maxKeywords string
	if req.MaxKeywords != 0 {
		maxKeywords = strconv.Itoa(req.MaxKeywords)
	}

	config, err := parseConfig(req.Mode, maxKeywords)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid export parameters", err.Error()).AsGinResponse())
		return
	}

	data, err := export.Export(sess.Transcript(), config).CSV()
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to serialize export", err.Error()).AsGinResponse())
		return
	}

	filename := exportFilename(sess, config.Mode)
	fileID, err := ctl.sheets.UploadCSV(c.Request.Context(), filename, data, req.FolderID)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadGateway, "Failed to upload export to Drive", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Export uploaded successfully", sdk.DriveExportResponse{
		FileID:   fileID,
		Filename: filename,
	}).AsGinResponse())
}

// parseConfig validates export parameters. An empty mode defaults to plain
// and an empty max_keywords to the default cap; the transformer itself
// clamps out-of-range caps
func parseConfig(mode, maxKeywords string) (export.Config, error) {
	config := export.DefaultConfig()

	switch mode {
	case "", string(export.ModePlain):
		config.Mode = export.ModePlain
	case string(export.ModeKeywordSplit):
		config.Mode = export.ModeKeywordSplit
	default:
		return export.Config{}, fmt.Errorf("unknown export mode: %s", mode)
	}

	if maxKeywords != "" {
		n, err := strconv.Atoi(maxKeywords)
		if err != nil {
			return export.Config{}, fmt.Errorf("invalid max_keywords: %s", maxKeywords)
		}
		config.MaxKeywords = n
	}

	return config, nil
}

// exportFilename names the download after the conversation, falling back to
// the session id before a conversation id exists
func exportFilename(sess *transcript.Session, mode export.Mode) string {
	id := sess.ConversationID
	if id == "" {
		id = sess.ID.String()
	}

	if mode == export.ModeKeywordSplit {
		return fmt.Sprintf("chat_log_keywords_%s.csv", id)
	}
	return fmt.Sprintf("chat_log_%s.csv", id)
}

// findSession resolves the :uuid parameter to a live session, writing the
// error response itself when it can't
func (ctl *Controller) findSession(c *gin.Context) (*transcript.Session, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid session id", err.Error()).AsGinResponse())
		return nil, false
	}

	sess, err := ctl.store.GetSession(c.Request.Context(), id)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", err.Error()).AsGinResponse())
		return nil, false
	}

	return sess, true
}
