package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
	intakesvc "github.com/lifebalance/intake-api/internal/service/intake"
	"github.com/lifebalance/intake-api/internal/service/submission"
	apperrors "github.com/lifebalance/intake-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) session(args mock.Arguments) (*model.IntakeSession, error) {
	s, _ := args.Get(0).(*model.IntakeSession)
	return s, args.Error(1)
}

func (m *mockService) Open(ctx context.Context) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx))
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id))
}

func (m *mockService) Close(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) Patch(ctx context.Context, id uuid.UUID, p model.Patch) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, p))
}

func (m *mockService) AppendMedication(ctx context.Context, id uuid.UUID, list model.MedicationList) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, list))
}

func (m *mockService) RemoveMedication(ctx context.Context, id uuid.UUID, list model.MedicationList, index int) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, list, index))
}

func (m *mockService) UpdateMedication(ctx context.Context, id uuid.UUID, list model.MedicationList, index int, field, value string) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, list, index, field, value))
}

func (m *mockService) ToggleSelection(ctx context.Context, id uuid.UUID, set model.SelectionSet, tag string) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, set, tag))
}

func (m *mockService) SetAnswer(ctx context.Context, id uuid.UUID, instrument measure.Instrument, index, value int) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, instrument, index, value))
}

func (m *mockService) Next(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id))
}

func (m *mockService) Previous(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id))
}

func (m *mockService) JumpTo(ctx context.Context, id uuid.UUID, step intakesvc.Step) (*model.IntakeSession, error) {
	return m.session(m.Called(ctx, id, step))
}

func (m *mockService) Review(ctx context.Context, id uuid.UUID) (*intakesvc.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*intakesvc.Review)
	return r, args.Error(1)
}

func (m *mockService) Document(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).([]byte)
	return b, args.String(1), args.Error(2)
}

func (m *mockService) Submit(ctx context.Context, id uuid.UUID) (*submission.Result, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*submission.Result)
	return r, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Fields  []apperrors.FieldError `json:"fields"`
	} `json:"error"`
}

func setup(svc *mockService) *gin.Engine {
	r := gin.New()
	h := NewHandler(svc)
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	h.RegisterSubmitRoute(api)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func testSession() *model.IntakeSession {
	return model.NewIntakeSession(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
}

func TestHandler_Open(t *testing.T) {
	svc := new(mockService)
	s := testSession()
	svc.On("Open", mock.Anything).Return(s, nil)

	w, env := do(t, setup(svc), http.MethodPost, "/api/v1/intake", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var state StateResponse
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, s.ID.String(), state.SessionID)
	assert.Equal(t, "Patient Info", state.StepName)
	assert.False(t, state.CanAdvance)
	assert.Len(t, state.Record.CurrentMedications, 1)
	svc.AssertExpectations(t)
}

func TestHandler_Patch(t *testing.T) {
	s := testSession()
	base := "/api/v1/intake/" + s.ID.String()

	t.Run("typed patch passed through", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Patch", mock.Anything, s.ID, mock.MatchedBy(func(p model.Patch) bool {
			return p.PatientName != nil && *p.PatientName == "Jane Doe" && p.Email == nil
		})).Return(s, nil)

		w, env := do(t, setup(svc), http.MethodPatch, base, `{"patientName":"Jane Doe"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		svc.AssertExpectations(t)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		svc := new(mockService)
		w, env := do(t, setup(svc), http.MethodPatch, base, `{"cardNumber":"4111111111111111"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		svc.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		svc := new(mockService)
		w, _ := do(t, setup(svc), http.MethodPatch, base, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid patch maps to 400", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Patch", mock.Anything, s.ID, mock.Anything).
			Return(nil, fmt.Errorf("%w: maritalStatus %q", model.ErrInvalidPatch, "Other"))
		w, env := do(t, setup(svc), http.MethodPatch, base, `{"maritalStatus":"Other"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Message, "maritalStatus")
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(mockService)
		w, _ := do(t, setup(svc), http.MethodPatch, "/api/v1/intake/nope", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ErrorMapping(t *testing.T) {
	s := testSession()
	path := "/api/v1/intake/" + s.ID.String() + "/next"

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing session", fmt.Errorf("failed to get intake: %w", repository.ErrNotFound), http.StatusNotFound},
		{"incomplete step", &intakesvc.IncompleteError{
			Step:   intakesvc.StepPatientInfo,
			Fields: []apperrors.FieldError{{Field: "email", Message: "email is required"}},
		}, http.StatusUnprocessableEntity},
		{"in flight", intakesvc.ErrSubmissionInFlight, http.StatusConflict},
		{"locked step", intakesvc.ErrStepLocked, http.StatusConflict},
		{"invalid step", intakesvc.ErrInvalidStep, http.StatusBadRequest},
		{"store failure", fmt.Errorf("failed to save intake: %w", fmt.Errorf("connection reset")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Next", mock.Anything, s.ID).Return(nil, tt.err)
			w, env := do(t, setup(svc), http.MethodPost, path, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantStatus, env.Error.Code)
		})
	}

	t.Run("incomplete step lists fields", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Next", mock.Anything, s.ID).Return(nil, &intakesvc.IncompleteError{
			Step: intakesvc.StepPatientInfo,
			Fields: []apperrors.FieldError{
				{Field: "patientName", Message: "patientName is required"},
				{Field: "email", Message: "email is required"},
			},
		})
		_, env := do(t, setup(svc), http.MethodPost, path, "")
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Fields, 2)
		assert.Equal(t, "patientName", env.Error.Fields[0].Field)
	})

	t.Run("internal detail not leaked", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Next", mock.Anything, s.ID).Return(nil, fmt.Errorf("redis: dial tcp 10.0.0.5:6379"))
		_, env := do(t, setup(svc), http.MethodPost, path, "")
		require.NotNil(t, env.Error)
		assert.NotContains(t, env.Error.Message, "10.0.0.5")
	})
}

func TestHandler_Medications(t *testing.T) {
	s := testSession()
	base := "/api/v1/intake/" + s.ID.String() + "/medications/"

	t.Run("append", func(t *testing.T) {
		svc := new(mockService)
		svc.On("AppendMedication", mock.Anything, s.ID, model.PastMedicationList).Return(s, nil)
		w, _ := do(t, setup(svc), http.MethodPost, base+"past", "")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown list", func(t *testing.T) {
		svc := new(mockService)
		w, _ := do(t, setup(svc), http.MethodPost, base+"future", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UpdateMedication", mock.Anything, s.ID, model.CurrentMedicationList, 0, "howOften", "daily").Return(s, nil)
		w, _ := do(t, setup(svc), http.MethodPatch, base+"current/0", `{"field":"howOften","value":"daily"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("update rejects unknown field", func(t *testing.T) {
		svc := new(mockService)
		w, env := do(t, setup(svc), http.MethodPatch, base+"current/0", `{"field":"dose","value":"10mg"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Fields, 1)
		assert.Equal(t, "field", env.Error.Fields[0].Field)
	})

	t.Run("remove out of range", func(t *testing.T) {
		svc := new(mockService)
		svc.On("RemoveMedication", mock.Anything, s.ID, model.CurrentMedicationList, 3).
			Return(nil, fmt.Errorf("%w: 3", model.ErrRowIndex))
		w, _ := do(t, setup(svc), http.MethodDelete, base+"current/3", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative index", func(t *testing.T) {
		svc := new(mockService)
		w, _ := do(t, setup(svc), http.MethodDelete, base+"current/-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_SelectionsAndAnswers(t *testing.T) {
	s := testSession()
	base := "/api/v1/intake/" + s.ID.String()

	t.Run("toggle", func(t *testing.T) {
		svc := new(mockService)
		svc.On("ToggleSelection", mock.Anything, s.ID, model.SelectionSymptoms, "Anxiety").Return(s, nil)
		w, _ := do(t, setup(svc), http.MethodPost, base+"/selections/symptoms", `{"tag":"Anxiety"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown tag", func(t *testing.T) {
		svc := new(mockService)
		svc.On("ToggleSelection", mock.Anything, s.ID, model.SelectionSymptoms, "Lycanthropy").
			Return(nil, fmt.Errorf("%w: %q", model.ErrUnknownTag, "Lycanthropy"))
		w, _ := do(t, setup(svc), http.MethodPost, base+"/selections/symptoms", `{"tag":"Lycanthropy"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("answer", func(t *testing.T) {
		svc := new(mockService)
		svc.On("SetAnswer", mock.Anything, s.ID, measure.PHQ9, 2, 0).Return(s, nil)
		w, _ := do(t, setup(svc), http.MethodPut, base+"/answers/phq9/2", `{"value":0}`)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("answer value required", func(t *testing.T) {
		svc := new(mockService)
		w, _ := do(t, setup(svc), http.MethodPut, base+"/answers/phq9/2", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown instrument", func(t *testing.T) {
		svc := new(mockService)
		w, _ := do(t, setup(svc), http.MethodPut, base+"/answers/bdi/0", `{"value":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_JumpTo(t *testing.T) {
	s := testSession()
	svc := new(mockService)
	svc.On("JumpTo", mock.Anything, s.ID, intakesvc.StepMDQ).Return(nil, intakesvc.ErrStepLocked)

	w, _ := do(t, setup(svc), http.MethodPut, "/api/v1/intake/"+s.ID.String()+"/step/4", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, setup(svc), http.MethodPut, "/api/v1/intake/"+s.ID.String()+"/step/four", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Document(t *testing.T) {
	s := testSession()
	svc := new(mockService)
	svc.On("Document", mock.Anything, s.ID).Return([]byte("%PDF-1.3"), "Life-Balance-Intake_Jane-Doe.pdf", nil)
	r := setup(svc)

	w, _ := do(t, r, http.MethodGet, "/api/v1/intake/"+s.ID.String()+"/document", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Life-Balance-Intake_Jane-Doe.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	w, _ = do(t, r, http.MethodGet, "/api/v1/intake/"+s.ID.String()+"/document?inline=true", "")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "inline;"))
}

func TestHandler_Submit(t *testing.T) {
	s := testSession()
	path := "/api/v1/intake/" + s.ID.String() + "/submit"

	t.Run("fallback result", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, s.ID).Return(&submission.Result{
			Success:     true,
			Delivery:    submission.DeliveryFallback,
			DownloadURL: "/api/v1/downloads/abc",
			MailtoURL:   "mailto:intake@example.com",
		}, nil)
		w, env := do(t, setup(svc), http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res submission.Result
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, submission.DeliveryFallback, res.Delivery)
		assert.Equal(t, "mailto:intake@example.com", res.MailtoURL)
	})

	t.Run("not at review", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, s.ID).Return(nil, intakesvc.ErrNotAtReview)
		w, _ := do(t, setup(svc), http.MethodPost, path, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_Close(t *testing.T) {
	s := testSession()
	svc := new(mockService)
	svc.On("Close", mock.Anything, s.ID).Return(nil).Once()
	svc.On("Close", mock.Anything, s.ID).Return(repository.ErrNotFound)
	r := setup(svc)

	w, _ := do(t, r, http.MethodDelete, "/api/v1/intake/"+s.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/intake/"+s.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
