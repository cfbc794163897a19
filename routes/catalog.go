package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp-server/services"
)

// CatalogHandler serves the public service catalog.
type CatalogHandler struct {
	catalog services.ServiceStore
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog services.ServiceStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterCatalogRoutes registers the public catalog routes
func RegisterCatalogRoutes(router *gin.RouterGroup, h *CatalogHandler) {
	router.GET("", h.listServices)
	router.GET("/:id", h.getService)
}

func (h *CatalogHandler) listServices(c *gin.Context) {
	services, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services, "count": len(services)})
}

func (h *CatalogHandler) getService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	svc, err := h.catalog.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}
