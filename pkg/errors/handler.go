package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const genericMessage = "An internal error occurred"

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	TraceID   string                 `json:"trace_id,omitempty"`
}

// typeByStatus labels bare status responses (router 404/405 and the like)
var typeByStatus = map[int]ErrorType{
	http.StatusBadRequest:         ErrorTypeValidation,
	http.StatusNotFound:           ErrorTypeNotFound,
	http.StatusRequestTimeout:     ErrorTypeTimeout,
	http.StatusGatewayTimeout:     ErrorTypeTimeout,
	http.StatusTooManyRequests:    ErrorTypeRateLimit,
	http.StatusServiceUnavailable: ErrorTypeUnavailable,
	http.StatusBadGateway:         ErrorTypeExternal,
}

// ErrorHandler writes errors as JSON and logs them once
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates an error handler. In debug mode responses carry
// stack traces and the text of non-AppError errors.
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{logger: logger, debug: debug}
}

// Handle writes err to w. Errors that are not AppErrors are reported as INTERNAL.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	appErr := GetAppError(err)
	if appErr == nil {
		h.handleUnknown(w, r, err)
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = StatusFor(appErr.Type)
	}

	response := h.newResponse(r, string(appErr.Type), appErr.Message)
	response.Code = appErr.Code
	response.Details = appErr.Details
	if h.debug && appErr.StackTrace != "" {
		details := make(map[string]interface{}, len(appErr.Details)+1)
		for k, v := range appErr.Details {
			details[k] = v
		}
		details["stack_trace"] = appErr.StackTrace
		response.Details = details
	}

	h.logAppError(r, appErr, status)
	h.sendJSON(w, status, response)
}

func (h *ErrorHandler) handleUnknown(w http.ResponseWriter, r *http.Request, err error) {
	message := genericMessage
	if h.debug {
		message = err.Error()
	}
	response := h.newResponse(r, string(ErrorTypeInternal), message)

	h.logger.Error("Unhandled error",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", response.RequestID),
		zap.String("trace_id", response.TraceID),
	)
	h.sendJSON(w, http.StatusInternalServerError, response)
}

// HandleStatus writes a bare error response for status
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	errType, ok := typeByStatus[status]
	if !ok {
		errType = ErrorTypeInternal
	}

	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)
	h.sendJSON(w, status, h.newResponse(r, string(errType), message))
}

// Middleware turns panics in next into INTERNAL responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *ErrorHandler) newResponse(r *http.Request, errType, message string) ErrorResponse {
	return ErrorResponse{
		Error:     true,
		Type:      errType,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
		TraceID:   r.Header.Get("X-Amzn-Trace-Id"),
	}
}

// logAppError logs client errors at warn and server errors at error
func (h *ErrorHandler) logAppError(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}
	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}
	if len(err.Details) > 0 {
		fields = append(fields, zap.Any("details", err.Details))
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(err.Message, fields...)
		return
	}
	h.logger.Warn(err.Message, fields...)
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
