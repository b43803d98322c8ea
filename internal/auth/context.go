package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	merchantIDKey    ctxKey = "merchant_id"
	operatorIDKey    ctxKey = "operator_id"
	pointOfSaleIDKey ctxKey = "point_of_sale_id"
)

// Header names the gateway forwards after authenticating the operator.
// Authentication itself happens upstream; this service only propagates
// identity.
const (
	HeaderMerchantID    = "X-Merchant-ID"
	HeaderOperatorID    = "X-Operator-ID"
	HeaderPointOfSaleID = "X-POS-ID"
)

// WithRequestContext copies the identity headers onto the request context so
// usecases never touch the HTTP layer.
func WithRequestContext(ctx context.Context, h http.Header) context.Context {
	if v := h.Get(HeaderMerchantID); v != "" {
		ctx = context.WithValue(ctx, merchantIDKey, v)
	}
	if v := h.Get(HeaderOperatorID); v != "" {
		ctx = context.WithValue(ctx, operatorIDKey, v)
	}
	if v := h.Get(HeaderPointOfSaleID); v != "" {
		ctx = context.WithValue(ctx, pointOfSaleIDKey, v)
	}
	return ctx
}

func GetMerchantID(ctx context.Context) string {
	if val, ok := ctx.Value(merchantIDKey).(string); ok {
		return val
	}
	return ""
}

func GetOperatorID(ctx context.Context) string {
	if val, ok := ctx.Value(operatorIDKey).(string); ok {
		return val
	}
	return ""
}

func GetPointOfSaleID(ctx context.Context) string {
	if val, ok := ctx.Value(pointOfSaleIDKey).(string); ok {
		return val
	}
	return ""
}
