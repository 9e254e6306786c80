package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
)

// Handler exposes HTTP endpoints for sign-in, sign-up and user administration.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	resp, err := h.svc.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	h.logger.Infow("user signed in", "user_id", resp.ID)
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	if err := h.svc.SignUp(r.Context(), req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	h.logger.Infow("user registered", "username", req.Username)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	out := make([]entity.PublicView, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	u, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u.Public())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	if err := h.svc.Update(r.Context(), id, req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "User successfully updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	h.logger.Infow("user deleted", "user_id", id)
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "User successfully deleted"})
}
