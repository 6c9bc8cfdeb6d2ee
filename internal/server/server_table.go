package server

import (
	"net/http"

	"broker_market/internal/domain/entity"
	"broker_market/pkg/httpx/reply"
	"broker_market/pkg/lox"
	"broker_market/pkg/rest"
)

// lookupTables is the pull accessor over the warmed-up tables.
type lookupTables interface {
	VendorTable() map[string]string
	MarketTable() map[string]float64
}

type vendorCatalog interface {
	Vendors() []entity.Vendor
}

type TableServer struct {
	tables  lookupTables
	catalog vendorCatalog
	config  rest.EngineConfig
}

func NewTableServer(tables lookupTables, catalog vendorCatalog, config rest.EngineConfig) TableServer {
	return TableServer{
		tables:  tables,
		catalog: catalog,
		config:  config,
	}
}

func (s TableServer) getV1TablesVendors(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.VendorTable{Vendors: s.tables.VendorTable()})
	return nil
}

func (s TableServer) getV1TablesMarket(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.MarketTable{Prices: s.tables.MarketTable()})
	return nil
}

func (s TableServer) getV1Vendors(w http.ResponseWriter, r *http.Request) error {
	vendors := lox.Map(s.catalog.Vendors(), newRESTVendor)

	reply.JSON(r.Context(), w, http.StatusOK, rest.VendorList{Vendors: vendors})
	return nil
}

func (s TableServer) getV1Config(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, s.config)
	return nil
}
