package download

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lifebalance/intake-api/internal/repository"
	"github.com/lifebalance/intake-api/pkg/errors"
	"github.com/lifebalance/intake-api/pkg/httputil"
)

// Handler serves documents parked by the submission fallback. A token stays
// valid until the store expires it, so an interrupted download can be retried.
type Handler struct {
	downloads repository.DownloadRepository
}

func NewHandler(downloads repository.DownloadRepository) *Handler {
	return &Handler{downloads: downloads}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/downloads/:token", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	token := c.Param("token")
	if _, err := uuid.Parse(token); err != nil {
		httputil.RespondWithError(c, errors.NotFound("download", err))
		return
	}

	d, err := h.downloads.Get(c.Request.Context(), token)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(c, errors.NotFound("download", err))
			return
		}
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}

	contentType := d.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	c.Data(http.StatusOK, contentType, d.Data)
}
