package ram

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/entity"
)

// Handler contains dependencies for handling RAM endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List supports ?brand=&type=&limit=&offset= query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.Filter{Brand: q.Get("brand"), Type: q.Get("type")}
	var err error
	if f.Limit, err = queryInt(q.Get("limit")); err != nil {
		apperror.Write(w, h.logger, apperror.NewBadRequest("Invalid limit", err))
		return
	}
	if f.Offset, err = queryInt(q.Get("offset")); err != nil {
		apperror.Write(w, h.logger, apperror.NewBadRequest("Invalid offset", err))
		return
	}
	rams, err := h.svc.List(r.Context(), f)
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rams)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	m, err := h.svc.Create(r.Context(), req)
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	m, err := h.svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		apperror.Write(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Ram successfully deleted"})
}

func queryInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
