package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
)

// ContractReader is the read side of the store consumed by the query API.
type ContractReader interface {
	List(ctx context.Context) ([]*model.Contrato, error)
	GetByNumero(ctx context.Context, numero string) (*model.Contrato, error)
}

type ContractHandler struct {
	store ContractReader
}

func NewContractHandler(store ContractReader) *ContractHandler {
	return &ContractHandler{store: store}
}

// List returns all stored contracts
func (h *ContractHandler) List(c *gin.Context) {
	contratos, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao listar contratos"})
		return
	}

	if contratos == nil {
		contratos = []*model.Contrato{}
	}
	c.JSON(http.StatusOK, gin.H{"contratos": contratos, "total": len(contratos)})
}

// Get returns a single contract by its numero_contrato natural key. The
// key contains slashes (001/2023), so it travels as a query parameter.
func (h *ContractHandler) Get(c *gin.Context) {
	numero := c.Query("numero")
	if numero == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro numero obrigatório"})
		return
	}

	contrato, err := h.store.GetByNumero(c.Request.Context(), numero)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao consultar contrato"})
		return
	}
	if contrato == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato não encontrado"})
		return
	}

	c.JSON(http.StatusOK, contrato)
}
