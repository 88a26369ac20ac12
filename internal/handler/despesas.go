package handler

import (
	"net/http"

	"gestaomesas/internal/apierror"
	"gestaomesas/internal/dto"
	"gestaomesas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DespesasHandler struct{ svc service.DespesaService }

func NewDespesasHandler(svc service.DespesaService) *DespesasHandler {
	return &DespesasHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar despesa
// @Description  Lança uma despesa no ciclo em andamento da rota. Despesas da categoria Viagem entram no subtotal do fechamento.
// @Tags         despesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarDespesaRequest true "Dados da despesa"
// @Success      201 {object} dto.DespesaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/despesas [post]
func (h *DespesasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DespesasHandler) ListPorCiclo(c *gin.Context) {
	cicloID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListPorCiclo(c.Request.Context(), cicloID)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
