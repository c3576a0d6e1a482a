package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pratoexpress/delivery/internal/auth"
	"github.com/pratoexpress/delivery/internal/store"
	"github.com/pratoexpress/delivery/pkg/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Erro no registro")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Erro no registro")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondWithError(w, http.StatusBadRequest, "Erro no registro")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, hashed)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondWithError(w, http.StatusBadRequest, "Usuário já existe")
			return
		}
		h.logger.WithError(err).Error("Failed to register user")
		respondWithError(w, http.StatusBadRequest, "Erro no registro")
		return
	}

	h.logger.WithField("user_id", user.ID).Info("User registered")
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Erro no login")
		return
	}

	user, err := h.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Usuário não encontrado")
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		respondWithError(w, http.StatusUnauthorized, "Senha incorreta")
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign token")
		respondWithError(w, http.StatusBadRequest, "Erro no login")
		return
	}

	user.Password = ""
	respondWithJSON(w, http.StatusOK, models.LoginResponse{User: *user, Token: token})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Token não fornecido")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"userId": identity.UserID})
}
