package server

import (
	"broker_market/internal/domain/entity"
	"broker_market/pkg/lox"
	"broker_market/pkg/rest"
)

func newDomainSellRequest(request rest.SettlementRequest) *entity.SellRequest {
	return &entity.SellRequest{
		Owner: entity.Owner{
			ID:                   request.Owner.ID,
			Level:                request.Owner.Level,
			CommissionBonus:      request.Owner.CommissionBonus,
			SkillProgress:        request.Owner.SkillProgress,
			MarketAccessOverride: request.Owner.MarketAccessOverride,
		},
		Items:   lox.Map(request.Items, newDomainItem),
		SellIDs: request.SellIDs,
	}
}

func newDomainItem(item rest.Item) entity.ItemInstance {
	result := entity.ItemInstance{
		ID:         item.ID,
		TemplateID: item.TemplateID,
		ParentID:   item.ParentID,
		StackCount: item.StackCount,
		FreshFind:  item.FreshFind,
		Level:      item.Level,
	}

	if item.Durability != nil {
		result.Durability = &entity.Durability{Current: item.Durability.Current, Max: item.Durability.Max}
	}
	if item.Buff != nil {
		result.Buff = &entity.Buff{Type: item.Buff.Type, Value: item.Buff.Value}
	}
	if item.Usage != nil {
		result.Usage = &entity.Usage{Consumed: *item.Usage}
	}
	if item.Resource != nil {
		result.Resource = &entity.Resource{Value: *item.Resource}
	}
	if item.SideEffect != nil {
		result.SideEffect = &entity.SideEffect{Value: *item.SideEffect}
	}
	if item.Medical != nil {
		result.Medical = &entity.Medical{Remaining: *item.Medical}
	}
	if item.Nutrition != nil {
		result.Nutrition = &entity.Nutrition{Remaining: *item.Nutrition}
	}
	if item.RepairKit != nil {
		result.RepairKit = &entity.RepairKit{Remaining: *item.RepairKit}
	}

	return result
}

func newRESTSettlement(settlement *entity.Settlement) rest.Settlement {
	return rest.Settlement{
		BatchID: settlement.BatchID,
		OwnerID: settlement.OwnerID,
		Groups:  lox.Map(settlement.Groups, newRESTGroup),
	}
}

func newRESTGroup(group entity.SettlementGroup) rest.SettlementGroup {
	return rest.SettlementGroup{
		DestinationID:   group.DestinationID,
		DestinationName: group.DestinationName,
		Marketplace:     group.Marketplace,
		ItemIDs:         group.ItemIDs,
		TotalGross:      group.TotalGross,
		TotalTax:        group.TotalTax,
		TotalCommission: group.TotalCommission,
		TotalProfit:     group.TotalProfit,
		TotalCanonical:  group.TotalCanonical,
		ItemCount:       group.ItemCount,
		StackCount:      group.StackCount,
		UnitCount:       group.UnitCount,
		Request: rest.SubRequest{
			DestinationID: group.Request.DestinationID,
			ItemIDs:       group.Request.ItemIDs,
			Price:         group.Request.Price,
		},
	}
}

func newDomainDecision(hint rest.PriceHint) entity.SellDecision {
	return entity.SellDecision{
		DestinationID: hint.DestinationID,
		Gross:         hint.Gross,
		Canonical:     hint.Canonical,
		Tax:           hint.Tax,
		Commission:    hint.Commission,
		NetProfit:     hint.NetProfit,
	}
}

func newRESTVendor(vendor entity.Vendor) rest.Vendor {
	marketplace := vendor.ID == entity.MarketplaceID

	// the sentinel's infinite coefficient is not representable in JSON and
	// means nothing to clients anyway
	coefficient := vendor.PayoutCoefficient
	if marketplace {
		coefficient = 0
	}

	return rest.Vendor{
		ID:                vendor.ID,
		Name:              vendor.Name,
		Currency:          vendor.Currency,
		PayoutCoefficient: coefficient,
		Locked:            vendor.Locked,
		Marketplace:       marketplace,
	}
}
