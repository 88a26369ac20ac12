package handler

import (
	"net/http"

	"gestaomesas/internal/apierror"
	"gestaomesas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SyncHandler struct{ svc service.SyncService }

func NewSyncHandler(svc service.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Status godoc
// @Summary      Estado de sincronização do acerto
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Param        acerto_id path string true "UUID do acerto"
// @Success      200 {object} dto.SyncStatusResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sync/{acerto_id} [get]
func (h *SyncHandler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("acerto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reenviar godoc
// @Summary      Reenviar acerto com erro de sincronização
// @Description  Zera o contador de tentativas e reenfileira o envio. Requer perfil supervisor.
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Param        acerto_id path string true "UUID do acerto"
// @Success      202 {object} map[string]string
// @Failure      409 {object} apierror.APIError
// @Router       /v1/sync/{acerto_id}/reenviar [post]
func (h *SyncHandler) Reenviar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("acerto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Reenviar(c.Request.Context(), id); err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"mensagem": "Reenvio enfileirado"})
}
