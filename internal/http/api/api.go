// Package api defines the JSON response envelope shared by every endpoint.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Response is the uniform envelope: success plus at most one of data/error,
// with optional message and pagination.
type Response struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func OKMessage(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func Page(w http.ResponseWriter, data any, p Pagination) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Error: message})
}

// Internal hides the original error from the client and logs it server-side.
func Internal(w http.ResponseWriter, err error) {
	slog.Error("internal error", "error", err)
	Fail(w, http.StatusInternalServerError, "Erro interno do servidor")
}
