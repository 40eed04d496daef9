package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rcollings/studyforge/internal/blob"
	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/queue"
)

type createResourceRequest struct {
	FolderID     string `json:"folderId" binding:"required"`
	ResourceType string `json:"resourceType" binding:"required"`
	Title        string `json:"title"`
	// SourceURL is a YouTube URL for youtube_link resources and a blob
	// locator (from the upload endpoint) for document and audio resources.
	SourceURL string `json:"fileUrl"`
	// Content carries the body of a text resource directly.
	Content string `json:"content"`
}

func (s *Server) createResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resourceType := model.ResourceType(req.ResourceType)
	if !resourceType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource type"})
		return
	}
	switch resourceType {
	case model.TypeYouTubeLink, model.TypeDocument, model.TypeAudio:
		if strings.TrimSpace(req.SourceURL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fileUrl is required for this resource type"})
			return
		}
	case model.TypeText:
		if strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required for text resources"})
			return
		}
	}
	ctx := c.Request.Context()
	userID := currentUser(c)
	if _, err := s.folders.Get(ctx, req.FolderID, userID); err != nil {
		notFoundOr500(c, err, "folder")
		return
	}
	res := &model.Resource{
		UserID:    userID,
		FolderID:  req.FolderID,
		Type:      resourceType,
		Title:     strings.TrimSpace(req.Title),
		SourceURL: strings.TrimSpace(req.SourceURL),
	}
	if resourceType == model.TypeText {
		res.Transcript = req.Content
	}
	if err := s.resources.Create(ctx, res); err != nil {
		s.log.Error().Err(err).Msg("creating resource failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	// Image sets are ingested on explicit trigger, after the client has
	// registered every image.
	if resourceType != model.TypeImageSet {
		if err := queue.EnqueueIngest(ctx, s.queue, res.ID); err != nil {
			s.log.Error().Err(err).Str("resource_id", res.ID).Msg("enqueueing ingest failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue processing"})
			return
		}
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) getResource(c *gin.Context) {
	res, err := s.resources.GetOwned(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getTranscript(c *gin.Context) {
	transcript, err := s.resources.GetTranscript(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

// getSourceURL returns a short-lived download URL for a resource whose source
// lives in the blob store.
func (s *Server) getSourceURL(c *gin.Context) {
	res, err := s.resources.GetOwned(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	_, key, err := blob.ParseLocator(res.SourceURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource has no downloadable source"})
		return
	}
	url, err := s.blobs.PresignGet(c.Request.Context(), key, s.cfg.SignedURLTTL)
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("presigning source url failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) deleteResource(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)
	res, err := s.resources.GetOwned(ctx, c.Param("id"), userID)
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	if err := s.deleteResourceRecord(ctx, res, userID); err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": res.ID})
}

// deleteResourceRecord removes a resource's blobs and rows. Blob deletions
// are best-effort; an orphaned object is preferable to a row that cannot be
// removed.
func (s *Server) deleteResourceRecord(ctx context.Context, res *model.Resource, userID string) error {
	if res.SourceURL != "" {
		if err := s.blobs.Delete(ctx, res.SourceURL); err != nil {
			s.log.Warn().Err(err).Str("resource_id", res.ID).Msg("deleting source blob failed")
		}
	}
	images, err := s.resources.ListImages(ctx, res.ID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.blobs.Delete(ctx, img.ImageURL); err != nil {
			s.log.Warn().Err(err).Str("resource_id", res.ID).Str("image_id", img.ID).Msg("deleting image blob failed")
		}
	}
	return s.resources.Delete(ctx, res.ID, userID)
}

// triggerIngest (re)queues the ingestion pipeline for a resource. Used for
// image sets once their images are registered, and to retry after a failure.
func (s *Server) triggerIngest(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.resources.GetOwned(ctx, c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	if err := queue.EnqueueIngest(ctx, s.queue, res.ID); err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("enqueueing ingest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue processing"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": res.ID, "status": string(res.Status)})
}

type addImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}

func (s *Server) addImage(c *gin.Context) {
	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	userID := currentUser(c)
	res, err := s.resources.GetOwned(ctx, c.Param("id"), userID)
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	if res.Type != model.TypeImageSet {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource is not an image set"})
		return
	}
	img := &model.ResourceImage{
		UserID:     userID,
		ResourceID: res.ID,
		ImageURL:   req.ImageURL,
	}
	if err := s.resources.AddImage(ctx, img); err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("registering image failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (s *Server) listImages(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.resources.GetOwned(ctx, c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	images, err := s.resources.ListImages(ctx, res.ID)
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("listing images failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if images == nil {
		images = []*model.ResourceImage{}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}
