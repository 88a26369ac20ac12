package handler

import (
	"errors"
	"net/http"

	"gestaomesas/internal/apierror"
	"gestaomesas/internal/dto"
	"gestaomesas/internal/middleware"
	"gestaomesas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AcertosHandler struct{ svc service.AcertoService }

func NewAcertosHandler(svc service.AcertoService) *AcertosHandler {
	return &AcertosHandler{svc: svc}
}

// statusForBusinessError maps sentinel business errors to HTTP codes so
// clients can branch without parsing Portuguese messages.
func statusForBusinessError(err error) int {
	switch {
	case errors.Is(err, service.ErrAcertoNaoEncontrado),
		errors.Is(err, service.ErrCicloNaoEncontrado),
		errors.Is(err, service.ErrClienteNaoEncontrado),
		errors.Is(err, service.ErrMesaNaoEncontrada),
		errors.Is(err, service.ErrRotaNaoEncontrada):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAcertoDuplicado),
		errors.Is(err, service.ErrSemCicloAtivo),
		errors.Is(err, service.ErrCicloEmAndamentoExistente),
		errors.Is(err, service.ErrCicloComAcertos),
		errors.Is(err, service.ErrCicloComAcertosPendentes),
		errors.Is(err, service.ErrCicloJaEncerrado):
		return http.StatusConflict
	case errors.Is(err, service.ErrSequenciaRelogio),
		errors.Is(err, service.ErrEvidenciaObrigatoria),
		errors.Is(err, service.ErrMesaDuplicada),
		errors.Is(err, service.ErrDescontoMaiorQueTotal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrPersistencia):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Preparar godoc
// @Summary      Preparar acerto
// @Description  Retorna ciclo ativo, débito anterior e relógios iniciais semeados para o cliente.
// @Tags         acertos
// @Produce      json
// @Security     BearerAuth
// @Param        cliente_id path string true "UUID do cliente"
// @Success      200 {object} dto.PreparacaoAcertoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/acertos/preparar/{cliente_id} [get]
func (h *AcertosHandler) Preparar(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("cliente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Preparar(c.Request.Context(), clienteID)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Salvar godoc
// @Summary      Salvar acerto
// @Description  Finaliza um acerto ACID: linhas de mesa, débito do cliente, relógios e rollup do ciclo; despacha sincronização assíncrona. Com acerto_id no corpo, edita o acerto existente.
// @Tags         acertos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SalvarAcertoRequest true "Detalhe do acerto"
// @Success      201  {object} dto.AcertoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/acertos [post]
func (h *AcertosHandler) Salvar(c *gin.Context) {
	var req dto.SalvarAcertoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	var colaboradorID *uuid.UUID
	if claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			colaboradorID = &id
		}
	}

	resp, err := h.svc.Salvar(c.Request.Context(), colaboradorID, req)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	status := http.StatusCreated
	if req.AcertoID != nil {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

func (h *AcertosHandler) BuscarPorID(c *gin.Context) {
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

// HistoricoPorCliente godoc
// @Summary      Histórico de acertos do cliente
// @Tags         acertos
// @Produce      json
// @Security     BearerAuth
// @Param        cliente_id path  string true  "UUID do cliente"
// @Param        limit      query int    false "Máximo de registros (default 50)"
// @Success      200 {array} dto.AcertoListItem
// @Router       /v1/clientes/{cliente_id}/acertos [get]
func (h *AcertosHandler) HistoricoPorCliente(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Param("cliente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit = atoiOrZero(v)
	}
	resp, err := h.svc.HistoricoPorCliente(c.Request.Context(), clienteID, limit)
	if err != nil {
		c.JSON(statusForBusinessError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AcertosHandler) ListPorCiclo(c *gin.Context) {
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
