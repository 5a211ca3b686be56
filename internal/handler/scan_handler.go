package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autostock/internal/ingest"
	"autostock/internal/service"
)

// ScanHandler handles invoice scan endpoints.
type ScanHandler struct {
	scanService service.ScanService
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scanService service.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// Preview handles POST /api/v1/scan. It accepts an invoice photo as
// multipart form data and returns the extracted draft for editing.
func (h *ScanHandler) Preview(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	out, err := h.scanService.Preview(c.Request.Context(), service.PreviewInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

// Commit handles POST /api/v1/scan/commit. The edited draft arrives either
// as a plain JSON body, or as multipart form data with a "payload" JSON
// field plus an optional "photo" file to attach to the bill.
func (h *ScanHandler) Commit(c *gin.Context) {
	var req service.CommitRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		payload := c.PostForm("payload")
		if payload == "" {
			RespondError(c, http.StatusBadRequest, "MISSING_PAYLOAD", "payload field is required")
			return
		}
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "payload is not valid JSON: "+err.Error())
			return
		}

		if file, header, err := c.Request.FormFile("photo"); err == nil {
			data, readErr := io.ReadAll(file)
			_ = file.Close()
			if readErr != nil {
				RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded photo")
				return
			}
			req.Photo = &ingest.PhotoAttachment{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	if len(req.Items) == 0 {
		RespondError(c, http.StatusBadRequest, "EMPTY_BATCH", "at least one item is required")
		return
	}

	report := h.scanService.Commit(c.Request.Context(), req)
	if report.Failed() {
		status := http.StatusUnprocessableEntity
		for _, e := range report.Errors {
			if e.Kind == ingest.FailureDuplicateBill {
				status = http.StatusConflict
				break
			}
		}
		c.JSON(status, APIResponse{Success: false, Data: report})
		return
	}

	RespondCreated(c, report)
}
