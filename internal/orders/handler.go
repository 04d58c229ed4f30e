package orders

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/printdesk/printdesk/internal/platform/httpx"
)

// Handler exposes the orders service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MountRoutes registers the orders endpoints on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/statuses", h.statuses)
		r.Get("/queue", h.designerQueue)
		r.Get("/groups", h.groupedByDesigner)
		r.Post("/quote-summary", h.quoteSummary)
		r.Post("/payment-suggestion", h.paymentSuggestion)

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Post("/transition", h.transition)
			r.Post("/open", h.openForDesign)
			r.Put("/lines", h.replaceLines)
			r.Put("/designer", h.assignDesigner)
			r.Put("/invoice", h.setInvoiceFlag)
			r.Post("/design-file", h.attachDesignFile)
			r.Get("/design-file", h.designFileURL)
			r.Get("/payments", h.listPayments)
			r.Post("/payments", h.recordPayment)
		})
	})
}

// actorFrom reads the staff identity injected by the auth middleware.
func actorFrom(r *http.Request) ActingUser {
	id, _ := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	actor := ActingUser{ID: id}
	for _, raw := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
		role := Role(strings.ToUpper(strings.TrimSpace(raw)))
		if role != "" {
			actor.Roles = append(actor.Roles, role)
		}
	}
	return actor
}

func orderIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	order, err := h.svc.Create(r.Context(), req, actorFrom(r).ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	orders, total, err := h.svc.List(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{
		Orders: orders,
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func parseListRequest(r *http.Request) (ListRequest, error) {
	q := r.URL.Query()
	req := ListRequest{Limit: 50}

	if s := q.Get("status"); s != "" {
		status := Status(strings.ToUpper(s))
		if !status.IsValid() {
			return req, errors.New("unknown status filter")
		}
		req.Status = &status
	}
	if v := q.Get("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, errors.New("invalid client_id")
		}
		req.ClientID = &id
	}
	if v := q.Get("designer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, errors.New("invalid designer_id")
		}
		req.DesignerID = &id
	}
	req.ActiveOnly = q.Get("active") == "true"
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return req, errors.New("invalid limit")
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, errors.New("invalid offset")
		}
		req.Offset = n
	}
	return req, nil
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var dto TransitionDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	req := dto.ToRequest(actorFrom(r), time.Now().UTC())
	if err := ValidateTransitionRequest(req); err != nil {
		respondError(w, r, err)
		return
	}
	order, err := h.svc.RequestTransition(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) openForDesign(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	order, err := h.svc.OpenForDesign(r.Context(), id, actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) replaceLines(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req ReplaceLinesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	order, err := h.svc.ReplaceLineItems(r.Context(), id, req.Items)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) assignDesigner(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req AssignDesignerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	order, err := h.svc.AssignDesigner(r.Context(), id, req.DesignerID, actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) setInvoiceFlag(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req InvoiceFlagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	order, err := h.svc.SetInvoiceRequested(r.Context(), id, req.RequiresInvoice)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// attachDesignFile accepts a multipart upload and stores the artwork
// through the configured file store.
func (h *Handler) attachDesignFile(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing file field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "read upload: "+err.Error())
		return
	}

	order, err := h.svc.AttachDesignFile(r.Context(), id, data, header.Filename)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) designFileURL(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	url, err := h.svc.DesignFileURL(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) quoteSummary(w http.ResponseWriter, r *http.Request) {
	var req QuoteSummaryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	summary, err := h.svc.ComputeQuoteSummary(r.Context(), req.Items)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) paymentSuggestion(w http.ResponseWriter, r *http.Request) {
	var req PaymentSuggestionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	amount, err := h.svc.ComputePaymentSuggestion(req.Plan, req.Total, req.Paid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, PaymentSuggestionResponse{
		Amount:         amount,
		RemainingAfter: RemainingAfter(req.Total, req.Paid, amount),
	})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	payments, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFrom(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var dto PaymentDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	order, err := h.svc.RecordPayment(r.Context(), id, actorFrom(r), PaymentInput{
		Amount:      dto.Amount,
		Plan:        dto.Plan,
		ConditionID: dto.ConditionID,
		Notes:       dto.Notes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) designerQueue(w http.ResponseWriter, r *http.Request) {
	designerID, err := strconv.ParseInt(r.URL.Query().Get("designer_id"), 10, 64)
	if err != nil || designerID < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "designer_id is required")
		return
	}
	orders, err := h.svc.DesignerQueue(r.Context(), designerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Orders: orders, Total: len(orders)})
}

func (h *Handler) groupedByDesigner(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.GroupedByDesigner(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, groups)
}

func (h *Handler) statuses(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, StatusCatalog())
}

// respondError maps domain errors to problem responses. FieldError
// wrappers carry the offending field into the payload.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", ve.Error())
		return
	}

	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, ErrNotFound):
		status, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, ErrRoleNotPermitted):
		status, detail = http.StatusForbidden, err.Error()
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrOrderImmutable):
		status, detail = http.StatusConflict, err.Error()
	case errors.Is(err, ErrPreconditionNotMet),
		errors.Is(err, ErrMissingFiscalData),
		errors.Is(err, ErrBelowMinimumOrder),
		errors.Is(err, ErrAmountExceedsBalance),
		errors.Is(err, ErrAmountNonPositive),
		errors.Is(err, ErrEmptyLineItems):
		status, detail = http.StatusUnprocessableEntity, err.Error()
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		httpx.ProblemField(w, status, http.StatusText(status), detail, fe.Field)
		return
	}
	httpx.Problem(w, status, http.StatusText(status), detail)
}
