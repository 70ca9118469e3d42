package chat

import (
	"log"
	"net/http"
	"net/url"

	"github.com/ethanbaker/fanchat/internal/dify"
	"github.com/ethanbaker/fanchat/internal/sheets"
	"github.com/ethanbaker/fanchat/internal/stores/transcript"
	"github.com/ethanbaker/fanchat/pkg/export"
	"github.com/ethanbaker/fanchat/pkg/persona"
	"github.com/ethanbaker/fanchat/pkg/sdk"
	"github.com/ethanbaker/fanchat/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allocatingConversationID marks log rows written before the backend has
// assigned a conversation id
const allocatingConversationID = "(allocating...)"

// Controller wires the chat flow: session store, persona registry, the chat
// relay, and the optional spreadsheet log
type Controller struct {
	cfg      *utils.Config
	store    transcript.Store
	registry *persona.Registry
	relay    *dify.Client
	sheets   *sheets.Service
}

// New creates the chat controller. sheetsService may be nil, which disables
// log persistence and history resume
func New(cfg *utils.Config, store transcript.Store, registry *persona.Registry, relay *dify.Client, sheetsService *sheets.Service) *Controller {
	return &Controller{
		cfg:      cfg,
		store:    store,
		registry: registry,
		relay:    relay,
		sheets:   sheetsService,
	}
}

// CreateSession handles POST requests to start a chat session
func (ctl *Controller) CreateSession(c *gin.Context) {
	// Parse request body
	var req sdk.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	// The persona must exist and have a key
	if _, err := ctl.registry.Get(req.Persona); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Unknown persona", err.Error()).AsGinResponse())
		return
	}

	sess, err := ctl.store.CreateSession(c.Request.Context(), req.UserName, req.Persona, req.ConversationID)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to create session", err.Error()).AsGinResponse())
		return
	}

	// Joining an existing conversation: resume its history from the
	// spreadsheet log. A failed load degrades to an empty transcript
	if req.ConversationID != "" && ctl.sheets != nil {
		history, err := ctl.sheets.LoadHistory(c.Request.Context(), req.ConversationID)
		if err != nil {
			log.Printf("[CHAT]: Failed to load history for %s: %v", req.ConversationID, err)
		} else {
			sess.Replace(history)
		}
	}

	c.JSON(sdk.NewSuccessResponse("Session created successfully", toSDKSession(sess)).AsGinResponse())
}

// GetSession handles GET requests to retrieve a session and its transcript
func (ctl *Controller) GetSession(c *gin.Context) {
	sess, ok := ctl.findSession(c)
	if !ok {
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session retrieved successfully", toSDKSession(sess)).AsGinResponse())
}

// PostMessage handles POST requests to send a message through the relay
func (ctl *Controller) PostMessage(c *gin.Context) {
	sess, ok := ctl.findSession(c)
	if !ok {
		return
	}

	// Parse request body
	var req sdk.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	p, err := ctl.registry.Get(sess.PersonaName)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Session persona is no longer available", err.Error()).AsGinResponse())
		return
	}

	// Record the user's turn before relaying so the transcript keeps its
	// order even if the backend fails
	userTurn := export.Turn{Role: export.RoleUser, Name: sess.UserName, Content: req.Content}
	sess.Append(userTurn)
	ctl.appendLog(c, sess, userTurn)

	resp, err := ctl.relay.SendMessage(c.Request.Context(), p.APIKey(), dify.ChatRequest{
		Query:          req.Content,
		User:           sess.UserName,
		ConversationID: sess.ConversationID,
		CSVAttachment:  sess.TakePendingCSV(),
	})
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadGateway, "Chat backend request failed", err.Error()).AsGinResponse())
		return
	}

	// The backend allocates the conversation id on the first reply
	sess.SetConversationID(resp.ConversationID)

	assistantTurn := export.Turn{Role: export.RoleAssistant, Name: sess.PersonaName, Content: resp.Answer}
	sess.Append(assistantTurn)
	ctl.appendLog(c, sess, assistantTurn)

	c.JSON(sdk.NewSuccessResponse("Message sent successfully", sdk.PostMessageResponse{
		Answer:         resp.Answer,
		ConversationID: sess.ConversationID,
	}).AsGinResponse())
}

// AttachCSV handles POST requests to stage a CSV file for the next message
func (ctl *Controller) AttachCSV(c *gin.Context) {
	sess, ok := ctl.findSession(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing CSV file", err.Error()).AsGinResponse())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not open uploaded file", err.Error()).AsGinResponse())
		return
	}
	defer f.Close()

	csvText, rows, err := truncateCSV(f, maxAttachmentRows)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse CSV file", err.Error()).AsGinResponse())
		return
	}

	sess.AttachCSV(csvText)

	c.JSON(sdk.NewSuccessResponse("CSV attached to next message", sdk.AttachCSVResponse{
		Filename: fileHeader.Filename,
		Rows:     rows,
		Attached: true,
	}).AsGinResponse())
}

// ClearSession handles POST requests to start a fresh conversation in place
func (ctl *Controller) ClearSession(c *gin.Context) {
	sess, ok := ctl.findSession(c)
	if !ok {
		return
	}

	sess.Clear()

	c.JSON(sdk.NewSuccessResponse("New conversation started", toSDKSession(sess)).AsGinResponse())
}

// DeleteSession handles DELETE requests to remove an existing session
func (ctl *Controller) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid session id", err.Error()).AsGinResponse())
		return
	}

	if err := ctl.store.DeleteSession(c.Request.Context(), id); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse[any]("Session deleted successfully", nil).AsGinResponse())
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

// appendLog writes a turn to the spreadsheet log. Persistence failure is
// reported in the server log and never aborts the chat flow
func (ctl *Controller) appendLog(c *gin.Context, sess *transcript.Session, turn export.Turn) {
	if ctl.sheets == nil {
		return
	}

	conversationID := sess.ConversationID
	if conversationID == "" {
		conversationID = allocatingConversationID
	}

	if err := ctl.sheets.AppendLog(c.Request.Context(), conversationID, sess.PersonaName, turn); err != nil {
		log.Printf("[CHAT]: Failed to persist log row: %v", err)
	}
}

// Helper method to convert internal session to sdk session
func toSDKSession(sess *transcript.Session) sdk.Session {
	return sdk.Session{
		ID:             sess.ID.String(),
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
		UserName:       sess.UserName,
		Persona:        sess.PersonaName,
		ConversationID: sess.ConversationID,
		ShareQuery:     shareQuery(sess),
		Turns:          sdk.FromTranscript(sess.Transcript()),
	}
}

// shareQuery builds the query string that lets another participant join the
// same conversation. Empty until the backend allocates a conversation id
func shareQuery(sess *transcript.Session) string {
	if sess.ConversationID == "" {
		return ""
	}

	params := url.Values{}
	params.Set("page", "chat")
	params.Set("cid", sess.ConversationID)
	params.Set("bot", sess.PersonaName)
	params.Set("name", sess.UserName)
	return params.Encode()
}
