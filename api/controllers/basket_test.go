package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/internal/basket"
)

type stubBasketService struct {
	input  *basket.CompareInput
	result *basket.ComparisonDTO
	err    error
}

func (s *stubBasketService) Compare(ctx context.Context, input basket.CompareInput) (*basket.ComparisonDTO, error) {
	s.input = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubBasketService) InvalidateCatalog(ctx context.Context) {}

func TestBasketCompare(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		itemID := uuid.New()
		stub := &stubBasketService{result: &basket.ComparisonDTO{}}
		body := strings.NewReader(`{"items":[{"reference_item_id":"` + itemID.String() + `","quantity":2}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/basket/compare", body)
		rec := httptest.NewRecorder()

		BasketCompare(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.input == nil || len(stub.input.Items) != 1 {
			t.Fatalf("expected one basket line, got %+v", stub.input)
		}
		if stub.input.Items[0].ReferenceItemID != itemID || stub.input.Items[0].Quantity != 2 {
			t.Fatalf("unexpected basket line %+v", stub.input.Items[0])
		}
	})

	t.Run("empty basket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/basket/compare", strings.NewReader(`{"items":[]}`))
		rec := httptest.NewRecorder()

		BasketCompare(&stubBasketService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty basket, got %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/basket/compare", strings.NewReader(`{`))
		rec := httptest.NewRecorder()

		BasketCompare(&stubBasketService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
		}
	})
}
