package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aptview/server/config"
	"aptview/server/internal/aggregate"
	"aptview/server/internal/database"
	"aptview/server/internal/geometry"
	"aptview/server/internal/query"
)

type Handler struct {
	service *aggregate.Service
	logger  *logrus.Logger
}

func NewHandler(service *aggregate.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) SearchComplexes(c *gin.Context) {
	var req query.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters"})
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search complexes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search complexes"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetComplexes(c *gin.Context) {
	var req query.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list parameters"})
		return
	}

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list complexes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list complexes"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetComplexByID(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrComplexNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complex not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get complex")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complex"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) GetComplexTypes(c *gin.Context) {
	types, err := h.service.Types(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrComplexNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complex not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get complex types")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complex types"})
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *Handler) GetComplexSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrComplexNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complex not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get complex summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complex summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetComplexStatistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrComplexNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complex not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get complex statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complex statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListRegions returns the static table of supported regions.
func (h *Handler) ListRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": config.SupportedRegions})
}

func (h *Handler) GetDistrictBoundary(c *gin.Context) {
	feature, err := h.service.RegionBoundary(c.Request.Context(), c.Param("gugun"))
	if errors.Is(err, geometry.ErrNoBoundary) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No boundary available for district"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get district boundary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get district boundary"})
		return
	}

	c.JSON(http.StatusOK, feature)
}
