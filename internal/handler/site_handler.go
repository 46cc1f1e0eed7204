package handler

import (
	"net/http"

	"netadmin/internal/middleware"
	"netadmin/internal/service"
	"netadmin/pkg/pagination"
	"netadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	siteService service.SiteService
}

// NewSiteHandler sets up the routing dependencies for RemoteSite endpoints
func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SiteHandler) RegisterRoutes(router *gin.RouterGroup) {
	sites := router.Group("/sites", middleware.RequireAuth())
	{
		sites.GET("", h.ListSites)
		sites.GET("/all", h.ListAllSites)
		sites.GET("/:id", h.GetSite)
		sites.POST("", h.CreateSite)
		sites.PUT("/:id", h.UpdateSite)
		sites.DELETE("/:id", h.DeleteSite)
	}
}

// ListSites handles GET /sites with pagination and name/city search
// @Summary      List remote sites
// @Description  Retrieves a paginated list of Alfamart/Lawson remote sites
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        search  query     string  false  "Case-insensitive substring match on name or city"
// @Success      200     {object}  response.Response{data=pagination.Page}
// @Failure      500     {object}  response.Response
// @Router       /sites [get]
func (h *SiteHandler) ListSites(c *gin.Context) {
	p := pagination.Parse(c)

	sites, total, err := h.siteService.ListSites(c.Request.Context(), p.Search, p.Offset, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pagination.NewPage(sites, len(sites), total, p, c.FullPath())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, page))
}

// ListAllSites handles GET /sites/all for the dashboard map markers
// @Summary      List all remote sites
// @Description  Retrieves every remote site unpaginated, for map rendering
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.SiteResponse}
// @Router       /sites/all [get]
func (h *SiteHandler) ListAllSites(c *gin.Context) {
	sites, err := h.siteService.ListAllSites(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sites))
}

// GetSite handles GET /sites/:id
// @Summary      Get remote site by ID
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  response.Response{data=service.SiteResponse}
// @Failure      404  {object}  response.Response
// @Router       /sites/{id} [get]
func (h *SiteHandler) GetSite(c *gin.Context) {
	site, err := h.siteService.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

// CreateSite handles POST /sites
// @Summary      Create a remote site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SiteRequest  true  "Create Site Payload"
// @Success      201      {object}  response.Response{data=service.SiteResponse}
// @Failure      422      {object}  response.Response
// @Router       /sites [post]
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req service.SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	site, err := h.siteService.CreateSite(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, site))
}

// UpdateSite handles PUT /sites/:id
// @Summary      Update remote site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Site ID"
// @Param        payload  body      service.SiteRequest  true  "Update Site Payload"
// @Success      200      {object}  response.Response{data=service.SiteResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /sites/{id} [put]
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	var req service.SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	site, err := h.siteService.UpdateSite(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

// DeleteSite handles DELETE /sites/:id
// @Summary      Delete remote site
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /sites/{id} [delete]
func (h *SiteHandler) DeleteSite(c *gin.Context) {
	if err := h.siteService.DeleteSite(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Remote site deleted"))
}
