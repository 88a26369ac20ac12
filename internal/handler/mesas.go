package handler

import (
	"net/http"

	"gestaomesas/internal/apierror"
	"gestaomesas/internal/dto"
	"gestaomesas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MesasHandler struct{ svc service.MesaService }

func NewMesasHandler(svc service.MesaService) *MesasHandler {
	return &MesasHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar mesa
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CriarMesaRequest true "Dados da mesa"
// @Success      201 {object} dto.MesaResponse
// @Router       /v1/mesas [post]
func (h *MesasHandler) Criar(c *gin.Context) {
	var req dto.CriarMesaRequest
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

func (h *MesasHandler) BuscarPorID(c *gin.Context) {
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

func (h *MesasHandler) ListPorCliente(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("cliente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListPorCliente(c.Request.Context(), clienteID)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListDeposito godoc
// @Summary      Mesas no depósito
// @Description  Mesas sem cliente atribuído, disponíveis para instalação.
// @Tags         mesas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.MesaResponse
// @Router       /v1/mesas/deposito [get]
func (h *MesasHandler) ListDeposito(c *gin.Context) {
	resp, err := h.svc.ListDeposito(c.Request.Context())
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MesasHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarMesaRequest
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

// Transferir godoc
// @Summary      Transferir mesa
// @Description  Move a mesa para outro cliente, ou ao depósito quando cliente_id é omitido.
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da mesa"
// @Param        body body dto.TransferirMesaRequest true "Destino da transferência"
// @Success      200 {object} dto.MesaResponse
// @Router       /v1/mesas/{id}/transferir [post]
func (h *MesasHandler) Transferir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.TransferirMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transferir(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
