package handlers

import (
	"log"
	"net/http"
	"time"

	"hrhub/internal/caching"
	"hrhub/internal/common"
	"hrhub/internal/models"
	"hrhub/internal/repositories"
	"hrhub/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	tenantCacheTTL   = 10 * time.Minute
	maxLogoSizeBytes = 2 << 20 // 2 MiB
	logoURLExpiry    = time.Hour
)

// TenantHandlers serves tenant lookup and logo management.
type TenantHandlers struct {
	tenantRepo repositories.TenantRepository
	logoSvc    services.LogoService
	cacheSvc   caching.CacheService
}

func NewTenantHandlers(tenantRepo repositories.TenantRepository, logoSvc services.LogoService, cacheSvc caching.CacheService) *TenantHandlers {
	return &TenantHandlers{
		tenantRepo: tenantRepo,
		logoSvc:    logoSvc,
		cacheSvc:   cacheSvc,
	}
}

// GetTenant returns the caller's tenant. The path id must match the tenant
// bound to the token; cross-tenant reads are rejected as not found.
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	ctx := c.Request().Context()

	auth, ok := common.GetAuthFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	tenantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if tenantID != auth.TenantID {
		return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
	}

	tenant, err := h.cacheSvc.GetTenant(ctx, tenantID)
	if err != nil {
		log.Printf("WARN: tenant cache read failed: %v", err)
	}
	if tenant == nil {
		tenant, err = h.tenantRepo.GetByID(ctx, tenantID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		if cacheErr := h.cacheSvc.SetTenant(ctx, tenant, tenantCacheTTL); cacheErr != nil {
			log.Printf("WARN: tenant cache write failed: %v", cacheErr)
		}
	}

	return c.JSON(http.StatusOK, h.withLogoURL(tenant))
}

// UploadLogo stores the tenant's logo in object storage and records the
// object key on the tenant row.
func (h *TenantHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	auth, ok := common.GetAuthFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	tenantID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if tenantID != auth.TenantID {
		return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "logo file is required")
	}
	if fileHeader.Size > maxLogoSizeBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "logo must be at most 2 MiB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/svg+xml" {
		return echo.NewHTTPError(http.StatusBadRequest, "logo must be a PNG, JPEG or SVG image")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read logo file")
	}
	defer src.Close()

	objectName, err := h.logoSvc.UploadLogo(ctx, tenantID, src, fileHeader.Size, contentType)
	if err != nil {
		log.Printf("ERROR: logo upload failed for tenant %s: %v", tenantID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store logo")
	}

	if err := h.tenantRepo.UpdateLogo(ctx, tenantID, objectName); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update tenant")
	}
	if err := h.cacheSvc.DeleteTenant(ctx, tenantID); err != nil {
		log.Printf("WARN: tenant cache invalidation failed: %v", err)
	}

	url, err := h.logoSvc.GetPresignedURL(tenantID, logoURLExpiry)
	if err != nil {
		log.Printf("WARN: failed to presign logo URL for tenant %s: %v", tenantID, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Logo uploaded successfully",
		"logo_url": url,
	})
}

// tenantView is the tenant plus a short-lived URL for its stored logo.
type tenantView struct {
	*models.Tenant
	LogoDownloadURL string `json:"logo_download_url,omitempty"`
}

func (h *TenantHandlers) withLogoURL(tenant *models.Tenant) tenantView {
	view := tenantView{Tenant: tenant}
	if tenant.LogoURL != nil && *tenant.LogoURL != "" {
		url, err := h.logoSvc.GetPresignedURL(tenant.ID, logoURLExpiry)
		if err != nil {
			log.Printf("WARN: failed to presign logo URL for tenant %s: %v", tenant.ID, err)
			return view
		}
		view.LogoDownloadURL = url
	}
	return view
}
