package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcollings/studyforge/internal/model"
)

type createFolderRequest struct {
	Name           string `json:"name" binding:"required"`
	ParentFolderID string `json:"parentFolderId"`
}

func (s *Server) createFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	folder := &model.Folder{
		UserID:         currentUser(c),
		Name:           req.Name,
		ParentFolderID: req.ParentFolderID,
	}
	if err := s.folders.Create(c.Request.Context(), folder); err != nil {
		notFoundOr500(c, err, "parent folder")
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func (s *Server) listRootContents(c *gin.Context) {
	s.respondFolderContents(c, "")
}

func (s *Server) listFolderContents(c *gin.Context) {
	folderID := c.Param("id")
	if _, err := s.folders.Get(c.Request.Context(), folderID, currentUser(c)); err != nil {
		notFoundOr500(c, err, "folder")
		return
	}
	s.respondFolderContents(c, folderID)
}

// respondFolderContents lists one level of the tree: subfolders first, then
// resources, both newest first.
func (s *Server) respondFolderContents(c *gin.Context, folderID string) {
	ctx := c.Request.Context()
	userID := currentUser(c)
	subfolders, err := s.folders.ListChildren(ctx, folderID, userID)
	if err != nil {
		s.log.Error().Err(err).Str("folder_id", folderID).Msg("listing subfolders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	resources := []*model.Resource{}
	if folderID != "" {
		resources, err = s.resources.ListByFolder(ctx, folderID, userID)
		if err != nil {
			s.log.Error().Err(err).Str("folder_id", folderID).Msg("listing resources failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}
	if subfolders == nil {
		subfolders = []*model.Folder{}
	}
	if resources == nil {
		resources = []*model.Resource{}
	}
	c.JSON(http.StatusOK, gin.H{"folders": subfolders, "resources": resources})
}

func (s *Server) deleteFolder(c *gin.Context) {
	folderID := c.Param("id")
	userID := currentUser(c)
	ctx := c.Request.Context()
	if _, err := s.folders.Get(ctx, folderID, userID); err != nil {
		notFoundOr500(c, err, "folder")
		return
	}
	if err := s.deleteFolderTree(ctx, folderID, userID); err != nil {
		s.log.Error().Err(err).Str("folder_id", folderID).Msg("recursive folder delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": folderID})
}

// deleteFolderTree removes a folder, its subfolders and all contained
// resources. Resources go first so their blobs are cleaned up; folder rows
// are removed bottom-up.
func (s *Server) deleteFolderTree(ctx context.Context, folderID, userID string) error {
	subfolders, err := s.folders.ListChildren(ctx, folderID, userID)
	if err != nil {
		return err
	}
	for _, sub := range subfolders {
		if err := s.deleteFolderTree(ctx, sub.ID, userID); err != nil {
			return err
		}
	}
	resources, err := s.resources.ListByFolder(ctx, folderID, userID)
	if err != nil {
		return err
	}
	for _, res := range resources {
		if err := s.deleteResourceRecord(ctx, res, userID); err != nil {
			return err
		}
	}
	return s.folders.Delete(ctx, folderID, userID)
}
