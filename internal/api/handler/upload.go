package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"omnichat/backend/internal/config"
)

// Upload stores one multipart file and answers with the descriptor the
// client attaches to its next send_message. The chat core never sees
// the bytes, only this descriptor.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file in request"})
		return
	}

	if file.Size > h.Cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large. Maximum size is 10MB."})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !config.AllowedUploadTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed."})
		return
	}

	uniqueName := uuid.New().String() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.Cfg.UploadDir, uniqueName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.Log.Error("upload save failed", "file", file.Filename, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	h.Log.Info("file uploaded", "file", file.Filename, "stored", uniqueName, "size", file.Size)

	c.JSON(http.StatusOK, gin.H{
		"id":              uuid.New().String(),
		"filename":        file.Filename,
		"unique_filename": uniqueName,
		"url":             "/uploads/" + uniqueName,
		"size":            file.Size,
		"type":            contentType,
		"uploaded_at":     time.Now().Format(time.RFC3339),
	})
}
