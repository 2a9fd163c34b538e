package common

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// APIVersion is reported in every response's meta block
const APIVersion = "v1"

// APIResponse is the envelope of every successful JSON response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// MetaInfo correlates a response with its request and carries paging state
type MetaInfo struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`
	Version    string          `json:"version,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// PaginationInfo describes the root page a chart response shows
type PaginationInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	ShowAll    bool `json:"show_all"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// RespondJSON writes data in the envelope without meta
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	RespondWithMeta(w, status, data, nil)
}

// RespondWithMeta writes data and meta in the envelope
func RespondWithMeta(w http.ResponseWriter, status int, data interface{}, meta *MetaInfo) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	})
}

// NewMetaInfo builds the meta block for r
func NewMetaInfo(r *http.Request, pagination *PaginationInfo) *MetaInfo {
	return &MetaInfo{
		RequestID:  ExtractRequestID(r),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    APIVersion,
		Pagination: pagination,
	}
}

// ExtractRequestID prefers chi's request id, then the client's X-Request-ID,
// then the API Gateway trace header
func ExtractRequestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return r.Header.Get("X-Amzn-Trace-Id")
}
