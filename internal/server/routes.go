package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"broker_market/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Post("/settlements", handler(s.postV1Settlements))
			r.Post("/price-hints", handler(s.postV1PriceHints))

			r.Route("/tables", func(r chi.Router) {
				r.Get("/vendors", handler(s.getV1TablesVendors))
				r.Get("/market", handler(s.getV1TablesMarket))
			})

			r.Get("/vendors", handler(s.getV1Vendors))
			r.Get("/config", handler(s.getV1Config))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
