package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/service"
)

func TestOrderHandler_List_StatusFilter(t *testing.T) {
	svc := &mockOrderService{
		ListOrdersFunc: func(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
			assert.Equal(t, domain.StatusToShip, status, "status query should pass through")
			return []domain.Order{{ID: uuid.New(), OrderNumber: "FOL-7", Status: domain.StatusToShip}}, nil
		},
	}
	h := NewOrderHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=to_ship", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var views []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	assert.Len(t, views, 1)
}

func TestOrderHandler_AdvanceStatus(t *testing.T) {
	orderID := uuid.New()
	svc := &mockOrderService{
		AdvanceStatusFunc: func(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
			assert.Equal(t, orderID, id)
			assert.Equal(t, domain.StatusProcessing, to)
			return &domain.Order{ID: orderID, Status: domain.StatusProcessing}, nil
		},
	}
	h := NewOrderHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+orderID.String()+"/status",
		strings.NewReader(`{"status":"processing"}`))
	req.SetPathValue("id", orderID.String())
	w := httptest.NewRecorder()
	h.AdvanceStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_AdvanceStatus_IllegalTransition(t *testing.T) {
	orderID := uuid.New()
	svc := &mockOrderService{
		AdvanceStatusFunc: func(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
			return nil, domain.InvalidState("service.order.AdvanceStatus", "cannot move from pending to shipped")
		},
	}
	h := NewOrderHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+orderID.String()+"/status",
		strings.NewReader(`{"status":"shipped"}`))
	req.SetPathValue("id", orderID.String())
	w := httptest.NewRecorder()
	h.AdvanceStatus(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid_state", envelope.Error.Code)
}

func TestOrderHandler_BulkAdvance(t *testing.T) {
	okID := uuid.New()
	failID := uuid.New()

	svc := &mockOrderService{
		BulkAdvanceFunc: func(ctx context.Context, ids []uuid.UUID, to domain.OrderStatus) []service.BulkResult {
			require.Equal(t, []uuid.UUID{okID, failID}, ids)
			return []service.BulkResult{
				{OrderID: okID},
				{OrderID: failID, Err: domain.InvalidState("service.order.AdvanceStatus", "order is terminal")},
			}
		},
	}
	h := NewOrderHandler(svc, testLogger())

	body := fmt.Sprintf(`{"order_ids":[%q,%q],"status":"processing"}`, okID, failID)
	req := httptest.NewRequest(http.MethodPost, "/admin/orders/bulk-status", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.BulkAdvance(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var results []struct {
		OrderID uuid.UUID `json:"order_id"`
		Error   string    `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error, "successful order carries no error")
	assert.Equal(t, failID, results[1].OrderID)
	assert.Contains(t, results[1].Error, "terminal")
}

func TestOrderHandler_HandleReturn(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		approve bool
	}{
		{name: "approve", body: `{"approve":true}`, approve: true},
		{name: "reject", body: `{"approve":false}`, approve: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderID := uuid.New()
			svc := &mockOrderService{
				HandleReturnFunc: func(ctx context.Context, id uuid.UUID, approve bool) (*domain.Order, error) {
					assert.Equal(t, tt.approve, approve)
					status := domain.StatusDelivered
					if approve {
						status = domain.StatusRefunded
					}
					return &domain.Order{ID: orderID, Status: status}, nil
				},
			}
			h := NewOrderHandler(svc, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+orderID.String()+"/return",
				strings.NewReader(tt.body))
			req.SetPathValue("id", orderID.String())
			w := httptest.NewRecorder()
			h.HandleReturn(w, req)

			require.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestOrderHandler_HandleReturn_MissingDecision(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{}, testLogger())

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+orderID.String()+"/return",
		strings.NewReader(`{}`))
	req.SetPathValue("id", orderID.String())
	w := httptest.NewRecorder()
	h.HandleReturn(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, "approve is required, not defaulted")
}

func TestOrderHandler_BadOrderID(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/nope", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
