package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/order"
	"github.com/go-chi/chi/v5/middleware"
)

const maxOrderBody = 1 << 20

type Order struct {
	IngestUseCase order.IngestUseCase
}

func NewOrderHandler(uc order.IngestUseCase) *Order {
	return &Order{
		IngestUseCase: uc,
	}
}

// Create acknowledges a posted order with 201 and the ingest result as JSON.
func (h *Order) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOrderBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	requestID := r.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = middleware.GetReqID(r.Context())
	}

	output, err := h.IngestUseCase.Execute(r.Context(), order.IngestInput{
		RequestID: requestID,
		Transport: "http",
		Body:      body,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
