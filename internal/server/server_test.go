package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"broker_market/internal/domain/entity"
	"broker_market/internal/server"
	"broker_market/pkg/rest"
	"broker_market/pkg/tests"
)

type stubSettlementService struct {
	got        *entity.SellRequest
	settlement *entity.Settlement
	err        error
}

func (s *stubSettlementService) ProcessBatch(_ context.Context, request *entity.SellRequest) (*entity.Settlement, error) {
	s.got = request
	return s.settlement, s.err
}

type hintRecord struct {
	ownerID, itemID string
	decision        entity.SellDecision
}

type stubHintStore struct {
	puts []hintRecord
}

func (s *stubHintStore) Put(_ context.Context, ownerID, itemID string, decision entity.SellDecision) error {
	s.puts = append(s.puts, hintRecord{ownerID: ownerID, itemID: itemID, decision: decision})
	return nil
}

type stubTables struct {
	vendors map[string]string
	prices  map[string]float64
}

func (s stubTables) VendorTable() map[string]string  { return s.vendors }
func (s stubTables) MarketTable() map[string]float64 { return s.prices }

type stubCatalog []entity.Vendor

func (s stubCatalog) Vendors() []entity.Vendor { return s }

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type env struct {
	client     tests.APIClient
	settlement *stubSettlementService
	hints      *stubHintStore
}

func newEnv(t *testing.T) env {
	t.Helper()

	settlementService := &stubSettlementService{
		settlement: &entity.Settlement{
			BatchID: "batch-1",
			OwnerID: "owner-1",
			Groups: []entity.SettlementGroup{{
				DestinationID:   "vendor-a",
				DestinationName: "A",
				ItemIDs:         []string{"rifle-1"},
				TotalGross:      600,
				TotalProfit:     600,
				TotalCanonical:  600,
				ItemCount:       1,
				StackCount:      1,
				UnitCount:       1,
				Request: entity.SubRequest{
					DestinationID: "vendor-a",
					ItemIDs:       []string{"rifle-1"},
					Price:         600,
				},
			}},
		},
	}
	hints := &stubHintStore{}

	srv := server.NewServer(
		server.NewSettlementServer(settlementService, hints),
		server.NewTableServer(
			stubTables{
				vendors: map[string]string{"rifle": "vendor-a"},
				prices:  map[string]float64{"rifle": 1250.5},
			},
			stubCatalog{
				{ID: "vendor-a", Name: "A", PayoutCoefficient: 40},
				entity.MarketplaceVendor(),
			},
			rest.EngineConfig{CommissionPercent: 2.5},
		),
	)

	router := chi.NewRouter()
	srv.RegisterRoutes(router)

	testServer := httptest.NewServer(router)
	t.Cleanup(testServer.Close)

	return env{
		client:     tests.NewAPIClient(testServer.URL, testServer.Client()),
		settlement: settlementService,
		hints:      hints,
	}
}

func TestPostV1Settlements(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("processes the batch", func(*testing.T) {
		e := newEnv(t)

		request := rest.SettlementRequest{
			Owner: rest.Owner{ID: "owner-1", Level: 20},
			Items: []rest.Item{
				{ID: "rifle-1", TemplateID: "rifle", Durability: &rest.Durability{Current: 50, Max: 100}},
				{ID: "scope-1", TemplateID: "scope", ParentID: "rifle-1"},
			},
			SellIDs: []string{"rifle-1"},
		}

		var settlement rest.Settlement
		resp, err := e.client.Post(ctx, "/v1/settlements", nil, request, &settlement, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)

		rq.Equal("batch-1", settlement.BatchID)
		rq.Len(settlement.Groups, 1)
		rq.Equal("vendor-a", settlement.Groups[0].DestinationID)
		rq.EqualValues(600, settlement.Groups[0].Request.Price)

		rq.NotNil(e.settlement.got)
		rq.Equal("owner-1", e.settlement.got.Owner.ID)
		rq.Len(e.settlement.got.Items, 2)
		rq.NotNil(e.settlement.got.Items[0].Durability)
		rq.InDelta(50, e.settlement.got.Items[0].Durability.Current, 0.001)
		rq.Equal("rifle-1", e.settlement.got.Items[1].ParentID)
	})

	t.Run("sell id outside the inventory", func(*testing.T) {
		e := newEnv(t)

		request := rest.SettlementRequest{
			Owner:   rest.Owner{ID: "owner-1"},
			Items:   []rest.Item{{ID: "rifle-1", TemplateID: "rifle"}},
			SellIDs: []string{"ghost"},
		}

		var payload errorPayload
		resp, err := e.client.Post(ctx, "/v1/settlements", nil, request, nil, &payload)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal("InvalidSellRequest", payload.Code)
		rq.Nil(e.settlement.got)
	})

	t.Run("malformed body", func(*testing.T) {
		e := newEnv(t)

		var payload errorPayload
		resp, err := e.client.PostJSON(ctx, "/v1/settlements", nil, "{not json", nil, &payload)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal("ValidationError", payload.Code)
	})

	t.Run("empty sell list fails validation", func(*testing.T) {
		e := newEnv(t)

		request := rest.SettlementRequest{
			Owner: rest.Owner{ID: "owner-1"},
			Items: []rest.Item{{ID: "rifle-1", TemplateID: "rifle"}},
		}

		var payload errorPayload
		resp, err := e.client.Post(ctx, "/v1/settlements", nil, request, nil, &payload)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal("ValidationError", payload.Code)
	})
}

func TestPostV1PriceHints(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("stores the announced decision", func(*testing.T) {
		e := newEnv(t)

		hint := rest.PriceHint{
			OwnerID:       "owner-1",
			ItemID:        "rifle-1",
			DestinationID: "vendor-a",
			Gross:         600,
			Canonical:     600,
			NetProfit:     600,
		}

		resp, err := e.client.Post(ctx, "/v1/price-hints", nil, hint, nil, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)

		rq.Len(e.hints.puts, 1)
		rq.Equal("owner-1", e.hints.puts[0].ownerID)
		rq.Equal("rifle-1", e.hints.puts[0].itemID)
		rq.EqualValues(600, e.hints.puts[0].decision.Gross)
	})

	t.Run("rejects a hint without a destination", func(*testing.T) {
		e := newEnv(t)

		hint := rest.PriceHint{OwnerID: "owner-1", ItemID: "rifle-1"}

		var payload errorPayload
		resp, err := e.client.Post(ctx, "/v1/price-hints", nil, hint, nil, &payload)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Empty(e.hints.puts)
	})
}

func TestGetV1Tables(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	e := newEnv(t)

	t.Run("vendors", func(*testing.T) {
		var table rest.VendorTable
		resp, err := e.client.Get(ctx, "/v1/tables/vendors", nil, &table, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal(map[string]string{"rifle": "vendor-a"}, table.Vendors)
	})

	t.Run("market", func(*testing.T) {
		var table rest.MarketTable
		resp, err := e.client.Get(ctx, "/v1/tables/market", nil, &table, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.InDelta(1250.5, table.Prices["rifle"], 0.001)
	})
}

func TestGetV1Vendors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	e := newEnv(t)

	var list rest.VendorList
	resp, err := e.client.Get(ctx, "/v1/vendors", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(list.Vendors, 2)

	rq.Equal("vendor-a", list.Vendors[0].ID)
	rq.InDelta(40, list.Vendors[0].PayoutCoefficient, 0.001)
	rq.False(list.Vendors[0].Marketplace)

	rq.Equal(entity.MarketplaceID, list.Vendors[1].ID)
	rq.True(list.Vendors[1].Marketplace)
	rq.Zero(list.Vendors[1].PayoutCoefficient)
}

func TestGetV1Config(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t)

	var config rest.EngineConfig
	resp, err := e.client.Get(context.Background(), "/v1/config", nil, &config, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.InDelta(2.5, config.CommissionPercent, 0.001)
}
