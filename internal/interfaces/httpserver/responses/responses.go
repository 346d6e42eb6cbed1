package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string `json:"code"` // UUID from PlatformError
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ListResponse wraps collections the way OpenAI style list endpoints do.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Object: "list", Data: data}
}

// HandleError maps err to a status code and aborts the request.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		requestID := platformErr.RequestID
		if requestID == "" {
			requestID = requestIDFrom(reqCtx)
		}
		reqCtx.AbortWithStatusJSON(platformerrors.HTTPStatus(platformErr.Type), ErrorResponse{
			Code:      platformErr.UUID,
			Error:     message,
			Message:   platformErr.Message,
			RequestID: requestID,
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:     message,
		RequestID: requestIDFrom(reqCtx),
	})
}

// HandleNewError creates a typed error at the handler layer and responds with it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, uuid)
	HandleError(reqCtx, err, message)
}

func requestIDFrom(reqCtx *gin.Context) string {
	if reqCtx.Request == nil {
		return ""
	}
	id, _ := reqCtx.Request.Context().Value(platformerrors.RequestIDKey{}).(string)
	return id
}
