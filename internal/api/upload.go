package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// upload stores one multipart file in the blob store and returns its s3://
// locator. The client passes the locator as fileUrl when creating a document,
// audio or image_set resource.
func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadSize)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expecting multipart field 'file'"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := fmt.Sprintf("uploads/%s/%s/%s", currentUser(c), uuid.NewString(), filepath.Base(header.Filename))
	locator, err := s.blobs.Upload(c.Request.Context(), objectKey, file, header.Size, contentType)
	if err != nil {
		s.log.Error().Err(err).Str("object_key", objectKey).Msg("upload to blob store failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"fileUrl":  locator,
		"fileName": header.Filename,
		"size":     header.Size,
	})
}
