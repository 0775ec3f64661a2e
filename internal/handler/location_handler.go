package handler

import (
	"github.com/gin-gonic/gin"

	"pickup/gamehub/internal/service"
	"pickup/gamehub/pkg/response"
)

type LocationHandler struct {
	directory service.DirectoryService
}

func NewLocationHandler(directory service.DirectoryService) *LocationHandler {
	return &LocationHandler{directory: directory}
}

func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.directory.ListLocations(c.Request.Context())
	if err != nil {
		response.ServiceUnavailable(c, "game directory is unavailable")
		return
	}

	response.Success(c, locations)
}
