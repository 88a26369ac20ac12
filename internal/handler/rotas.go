package handler

import (
	"net/http"

	"gestaomesas/internal/apierror"
	"gestaomesas/internal/dto"
	"gestaomesas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RotasHandler struct{ svc service.RotaService }

func NewRotasHandler(svc service.RotaService) *RotasHandler {
	return &RotasHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar rota
// @Tags         rotas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CriarRotaRequest true "Dados da rota"
// @Success      201 {object} dto.RotaResponse
// @Router       /v1/rotas [post]
func (h *RotasHandler) Criar(c *gin.Context) {
	var req dto.CriarRotaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RotasHandler) BuscarPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rota_id"))
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

func (h *RotasHandler) Listar(c *gin.Context) {
	incluirInativas := c.Query("incluir_inativas") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInativas)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RotasHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rota_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarRotaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
