package handler

import (
	"net/http"

	"gestaomesas/internal/apierror"
	"gestaomesas/internal/dto"
	"gestaomesas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CiclosHandler struct{ svc service.CicloService }

func NewCiclosHandler(svc service.CicloService) *CiclosHandler {
	return &CiclosHandler{svc: svc}
}

// Iniciar godoc
// @Summary      Iniciar ciclo
// @Description  Abre o próximo ciclo da rota. Falha se a rota já tem ciclo em andamento.
// @Tags         ciclos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.IniciarCicloRequest true "Rota do ciclo"
// @Success      201 {object} dto.CicloResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ciclos [post]
func (h *CiclosHandler) Iniciar(c *gin.Context) {
	var req dto.IniciarCicloRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Iniciar(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CiclosHandler) Finalizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.FinalizarCicloRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CiclosHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CiclosHandler) BuscarPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.BuscarPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CiclosHandler) CicloAtivo(c *gin.Context) {
	rotaID, err := uuid.Parse(c.Param("rota_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.CicloAtivo(c.Request.Context(), rotaID)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CiclosHandler) ListPorRota(c *gin.Context) {
	rotaID, err := uuid.Parse(c.Param("rota_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListPorRota(c.Request.Context(), rotaID)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumo godoc
// @Summary      Relatório de fechamento do ciclo
// @Description  Totais por método de pagamento e cadeia fixa de deduções (comissões 3%/2%).
// @Tags         ciclos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do ciclo"
// @Success      200 {object} dto.ResumoCicloResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ciclos/{id}/resumo [get]
func (h *CiclosHandler) Resumo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Resumo(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
