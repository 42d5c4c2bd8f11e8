package intake

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lifebalance/intake-api/internal/handler"
	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
	intakesvc "github.com/lifebalance/intake-api/internal/service/intake"
	"github.com/lifebalance/intake-api/pkg/errors"
	"github.com/lifebalance/intake-api/pkg/httputil"
	"github.com/lifebalance/intake-api/pkg/validator"
)

type Handler struct {
	service   intakesvc.IntakeService
	validator validator.Validator
}

func NewHandler(service intakesvc.IntakeService) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers the intake flow routes. Every route except Open
// addresses one session by id.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	intake := r.Group("/intake")
	{
		intake.POST("", h.Open)
		intake.GET("/:id", h.Get)
		intake.PATCH("/:id", h.Patch)
		intake.DELETE("/:id", h.Close)

		intake.POST("/:id/medications/:list", h.AppendMedication)
		intake.PATCH("/:id/medications/:list/:index", h.UpdateMedication)
		intake.DELETE("/:id/medications/:list/:index", h.RemoveMedication)

		intake.POST("/:id/selections/:set", h.ToggleSelection)
		intake.PUT("/:id/answers/:instrument/:index", h.SetAnswer)

		intake.POST("/:id/next", h.Next)
		intake.POST("/:id/previous", h.Previous)
		intake.PUT("/:id/step/:step", h.JumpTo)

		intake.GET("/:id/review", h.Review)
		intake.GET("/:id/document", h.Document)
	}
}

// RegisterSubmitRoute registers the submit route with its own middleware so
// it can carry a stricter rate limit.
func (h *Handler) RegisterSubmitRoute(r *gin.RouterGroup, mw ...gin.HandlerFunc) {
	r.POST("/intake/:id/submit", append(mw, h.Submit)...)
}

// StateResponse is the flow state returned by every mutating route.
type StateResponse struct {
	SessionID    string             `json:"session_id"`
	Step         int                `json:"step"`
	StepName     string             `json:"step_name"`
	FurthestStep int                `json:"furthest_step"`
	CanAdvance   bool               `json:"can_advance"`
	Submitting   bool               `json:"submitting"`
	Record       model.IntakeRecord `json:"record"`
}

func newStateResponse(s *model.IntakeSession) StateResponse {
	step := intakesvc.Step(s.Step)
	return StateResponse{
		SessionID:    s.ID.String(),
		Step:         s.Step,
		StepName:     step.String(),
		FurthestStep: s.Furthest,
		CanAdvance:   intakesvc.CanAdvance(s.Record, step) && intakesvc.Reachable(s.Record, step+1) == nil,
		Submitting:   s.Submitting,
		Record:       s.Record,
	}
}

type UpdateMedicationRequest struct {
	Field string `json:"field" validate:"required,oneof=medication howOften dateStarted outcome"`
	Value string `json:"value" validate:"max=500"`
}

type ToggleSelectionRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

type SetAnswerRequest struct {
	Value *int `json:"value" validate:"required"`
}

func (h *Handler) fail(c *gin.Context, err error) {
	httputil.RespondWithError(c, toAppError(err))
}

func (h *Handler) Open(c *gin.Context) {
	session, err := h.service.Open(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithCreated(c, newStateResponse(session))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) Patch(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var p model.Patch
	if err := handler.BindStrictJSON(c, &p); err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.Patch(c.Request.Context(), id, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) Close(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.service.Close(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func medicationList(c *gin.Context) (model.MedicationList, error) {
	list := model.MedicationList(c.Param("list"))
	if !list.Valid() {
		return "", errors.BadRequest(fmt.Sprintf("unknown medication list %q", list), nil)
	}
	return list, nil
}

func (h *Handler) AppendMedication(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	list, err := medicationList(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.AppendMedication(c.Request.Context(), id, list)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) UpdateMedication(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	list, err := medicationList(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	index, err := handler.IntParam(c, "index")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req UpdateMedicationRequest
	if err := handler.BindStrictJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.UpdateMedication(c.Request.Context(), id, list, index, req.Field, req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) RemoveMedication(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	list, err := medicationList(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	index, err := handler.IntParam(c, "index")
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.RemoveMedication(c.Request.Context(), id, list, index)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) ToggleSelection(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req ToggleSelectionRequest
	if err := handler.BindStrictJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.fail(c, err)
		return
	}
	set := model.SelectionSet(c.Param("set"))
	session, err := h.service.ToggleSelection(c.Request.Context(), id, set, req.Tag)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) SetAnswer(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	instrument := measure.Instrument(c.Param("instrument"))
	if _, ok := measure.Lookup(instrument); !ok {
		h.fail(c, errors.BadRequest(fmt.Sprintf("unknown instrument %q", instrument), nil))
		return
	}
	index, err := handler.IntParam(c, "index")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req SetAnswerRequest
	if err := handler.BindStrictJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.SetAnswer(c.Request.Context(), id, instrument, index, *req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) Next(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.Next(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) Previous(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.service.Previous(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) JumpTo(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		h.fail(c, errors.BadRequest("invalid step", err))
		return
	}
	session, err := h.service.JumpTo(c.Request.Context(), id, intakesvc.Step(n))
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newStateResponse(session))
}

func (h *Handler) Review(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	review, err := h.service.Review(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, review)
}

// Document streams the rendered intake PDF for preview or download.
func (h *Handler) Document(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	pdf, filename, err := h.service.Document(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	disposition := "attachment"
	if c.Query("inline") == "true" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Submit runs the submission pipeline. The result is returned even when
// delivery fell back to the download link.
func (h *Handler) Submit(c *gin.Context) {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	result, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
