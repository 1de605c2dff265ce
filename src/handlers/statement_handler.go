package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/mtop/backend/src/config"
	"github.com/username/mtop/backend/src/logger"
	"github.com/username/mtop/backend/src/security/validation"
	"github.com/username/mtop/backend/src/services"
	"github.com/username/mtop/backend/src/utils"
)

// StatementHandler serves the statement lifecycle: upload, metadata, delete.
type StatementHandler struct {
	statementService services.StatementService
}

func NewStatementHandler(service services.StatementService) *StatementHandler {
	return &StatementHandler{statementService: service}
}

// HandleUpload accepts a multipart statement CSV, validates and parses it,
// stores the ledger and responds with the statement metadata plus the
// access token for the report endpoints.
func (h *StatementHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to read upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "mpesa"
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure the 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if clientType := fileHeader.Header.Get("Content-Type"); clientType != "" {
		if err := validation.ValidateClientContentType(clientType); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if _, err := validation.ValidateFileContent(file); err != nil {
		ctxLogger.Warn("Statement content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctxLogger.Info("Processing statement upload", "source", source, "filename", fileHeader.Filename, "size", fileHeader.Size)

	summary, err := h.statementService.ProcessUpload(file, source, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParsingFailed):
			utils.SendJSONError(w, fmt.Sprintf("Could not parse statement: %v", err), http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrEmptyStatement):
			utils.SendJSONError(w, "Statement contains no usable transactions", http.StatusUnprocessableEntity)
		default:
			ctxLogger.Error("Statement upload failed", "error", err)
			utils.SendJSONError(w, "Failed to process statement upload", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		ctxLogger.Error("Error encoding upload response", "error", err)
	}
}

// HandleGetStatement returns stored statement metadata.
func (h *StatementHandler) HandleGetStatement(w http.ResponseWriter, r *http.Request) {
	statementID, ok := RequireStatementAccess(w, r)
	if !ok {
		return
	}

	stmt, err := h.statementService.GetStatement(statementID)
	if err != nil {
		if errors.Is(err, services.ErrStatementNotFound) {
			utils.SendJSONError(w, "Statement not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to load statement", "statementID", statementID, "error", err)
		utils.SendJSONError(w, "Failed to load statement", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stmt)
}

// HandleDeleteStatement removes a statement, its ledger rows and any cached
// reports.
func (h *StatementHandler) HandleDeleteStatement(w http.ResponseWriter, r *http.Request) {
	statementID, ok := RequireStatementAccess(w, r)
	if !ok {
		return
	}

	if err := h.statementService.DeleteStatement(statementID); err != nil {
		if errors.Is(err, services.ErrStatementNotFound) {
			utils.SendJSONError(w, "Statement not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete statement", "statementID", statementID, "error", err)
		utils.SendJSONError(w, "Failed to delete statement", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
