package sdk

import (
	"encoding/json"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/fanchat/pkg/export"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// CreateSessionRequest represents the request body for starting a chat
// session. ConversationID joins an existing conversation via a shared link
type CreateSessionRequest struct {
	UserName       string `json:"user_name" binding:"required"`
	Persona        string `json:"persona" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// PostMessageRequest represents the request body for sending a chat message
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostMessageResponse represents the assistant's reply
type PostMessageResponse struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
}

// AttachCSVResponse reports what was staged for the next message
type AttachCSVResponse struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	Attached bool   `json:"attached"`
}

// GenerateImageRequest selects the conversation snippet to illustrate
type GenerateImageRequest struct {
	TurnIndex int `json:"turn_index"`
}

// GenerateImageResponse carries the generated image
type GenerateImageResponse struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// DriveExportRequest uploads an export to a Drive folder
type DriveExportRequest struct {
	Mode        string `json:"mode"`
	MaxKeywords int    `json:"max_keywords"`
	FolderID    string `json:"folder_id"`
}

// DriveExportResponse reports the uploaded file
type DriveExportResponse struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// Turn is one transcript entry in API responses
type Turn struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Session represents an active chat session
type Session struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	UserName       string    `json:"user_name"`
	Persona        string    `json:"persona"`
	ConversationID string    `json:"conversation_id"`
	ShareQuery     string    `json:"share_query,omitempty"`
	Turns          []Turn    `json:"turns,omitempty"`
}

// Persona is one selectable chat persona in API responses
type Persona struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// FromTranscript converts transcript turns to their API representation
func FromTranscript(transcript export.Transcript) []Turn {
	turns := make([]Turn, 0, len(transcript))
	for _, t := range transcript {
		turns = append(turns, Turn{
			Role:    string(t.Role),
			Name:    t.Name,
			Content: t.Content,
		})
	}
	return turns
}
