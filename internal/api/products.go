package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pratoexpress/delivery/internal/store"
	"github.com/pratoexpress/delivery/pkg/models"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := h.products.Products(r.Context(), category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondWithError(w, http.StatusBadRequest, "Erro ao buscar produtos")
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Erro ao buscar produto")
		return
	}

	product, err := h.products.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Produto não encontrado")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch product")
		respondWithError(w, http.StatusBadRequest, "Erro ao buscar produto")
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Erro ao criar produto")
		return
	}

	product, err := h.products.CreateProduct(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		respondWithError(w, http.StatusBadRequest, "Erro ao criar produto")
		return
	}

	h.logger.WithField("product_id", product.ID).Info("Product created")
	respondWithJSON(w, http.StatusCreated, product)
}
