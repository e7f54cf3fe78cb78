package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pc-setup-agent/internal/application/port/input"
	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/domain/entity"
	"pc-setup-agent/internal/usecase/setup"
)

const (
	maxBodyBytes = 64 << 10

	statusSuccess = "sucesso"

	msgIncomplete  = "Dados incompletos (budget, use, userId são obrigatórios)."
	msgInvalidJSON = "Corpo da requisição inválido: JSON esperado."
	msgInternal    = "Ocorreu um erro interno no servidor: "
)

type Handler struct {
	generator input.SetupGenerator
	logger    output.LoggerPort
}

func NewHandler(generator input.SetupGenerator, logger output.LoggerPort) *Handler {
	return &Handler{generator: generator, logger: logger.Named("api")}
}

type setupRequest struct {
	Budget json.RawMessage `json:"budget"`
	Use    string          `json:"use"`
	UserID string          `json:"userId"`
}

type setupResponse struct {
	Status string `json:"status"`
	Setup  string `json:"setup_gerado"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) GenerateSetup(w http.ResponseWriter, r *http.Request) {
	var body setupRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidJSON})
		return
	}

	req := entity.SetupRequest{
		Budget:  parseBudget(body.Budget),
		UseCase: strings.TrimSpace(body.Use),
		UserID:  strings.TrimSpace(body.UserID),
	}

	h.logger.Info("Setup requested", "userId", req.UserID)
	result, err := h.generator.Generate(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, setupResponse{Status: statusSuccess, Setup: result.Setup})
	case errors.Is(err, entity.ErrIncompleteRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgIncomplete})
	case setup.IsGenerationError(err):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal + err.Error()})
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseBudget accepts a JSON number or string and returns its text. Null,
// empty and non-scalar values give "".
func parseBudget(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch b := v.(type) {
	case string:
		return strings.TrimSpace(b)
	case json.Number:
		return b.String()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
