package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Settlement engine codes.
	TemplateNotFound    failure.ErrorCode = "TemplateNotFound"    // instance references a template the catalog doesn't know
	VendorNotFound      failure.ErrorCode = "VendorNotFound"      // settlement destination isn't a known vendor
	ItemNotFound        failure.ErrorCode = "ItemNotFound"        // sell request references an item missing from the inventory
	ItemUnsellable      failure.ErrorCode = "ItemUnsellable"      // no vendor buys it and the marketplace refuses it
	CatalogUnavailable  failure.ErrorCode = "CatalogUnavailable"  // reference data absent at startup, nothing can be priced
	CacheCorrupted      failure.ErrorCode = "CacheCorrupted"      // persisted lookup table unreadable or stale
	RulesUnavailable    failure.ErrorCode = "RulesUnavailable"    // trading rules row missing
	InvalidSellRequest  failure.ErrorCode = "InvalidSellRequest"  // malformed batch settlement request
	InvalidPriceHint    failure.ErrorCode = "InvalidPriceHint"    // malformed client-announced price
	EstimateUnavailable failure.ErrorCode = "EstimateUnavailable" // reference-price service gave no estimate
)
