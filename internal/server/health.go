package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/docket"
	"github.com/kode4food/docket/pkg/api"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: docket.Name,
		Version: docket.Version,
		Status:  "ok",
	})
}
