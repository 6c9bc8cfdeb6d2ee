package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"broker_market/internal/domain/entity"
	"broker_market/pkg/errcodes"
	"broker_market/pkg/httpx/reply"
	"broker_market/pkg/httpx/req"
	"broker_market/pkg/rest"
)

type settlementService interface {
	ProcessBatch(ctx context.Context, request *entity.SellRequest) (*entity.Settlement, error)
}

type hintStore interface {
	Put(ctx context.Context, ownerID, itemID string, decision entity.SellDecision) error
}

type SettlementServer struct {
	settlementService settlementService
	hintStore         hintStore
}

func NewSettlementServer(settlementService settlementService, hintStore hintStore) SettlementServer {
	return SettlementServer{
		settlementService: settlementService,
		hintStore:         hintStore,
	}
}

func (s SettlementServer) postV1Settlements(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SettlementRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := validateSellRequest(&request); err != nil {
		return err
	}

	settlement, err := s.settlementService.ProcessBatch(ctx, newDomainSellRequest(request))
	if err != nil {
		return fmt.Errorf("settlementService.ProcessBatch: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSettlement(settlement))

	return nil
}

func (s SettlementServer) postV1PriceHints(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var hint rest.PriceHint

	if err := req.Read(r, &hint); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.hintStore.Put(ctx, hint.OwnerID, hint.ItemID, newDomainDecision(hint)); err != nil {
		return fmt.Errorf("hintStore.Put: %w", err)
	}

	reply.OK(w)

	return nil
}

// validateSellRequest checks the cross-field consistency the struct tags
// can't express: every requested id must be present in the inventory slice.
func validateSellRequest(request *rest.SettlementRequest) error {
	known := make(map[string]struct{}, len(request.Items))
	for _, item := range request.Items {
		known[item.ID] = struct{}{}
	}

	for _, id := range request.SellIDs {
		if _, ok := known[id]; !ok {
			return failure.NewInvalidArgumentError(
				"sell id not present in items: "+id,
				failure.WithCode(errcodes.InvalidSellRequest),
				failure.WithDescription("Every sell id must reference an inventory item"),
			)
		}
	}

	return nil
}
