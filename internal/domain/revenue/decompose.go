package revenue

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// jsonParser preserves number precision by decoding JSON numbers as
// json.Number instead of float64.
var jsonParser = jsoniter.Config{UseNumber: true}.Froze()

// Decomposition splits an order's revenue into its components.
type Decomposition struct {
	Gross    decimal.Decimal `json:"gross"`
	Refund   decimal.Decimal `json:"refund"`
	Discount decimal.Decimal `json:"discount"`
}

// Net returns gross minus refunds minus discounts, unclamped.
func (d Decomposition) Net() decimal.Decimal {
	return NetRevenue(d.Gross, d.Refund, d.Discount)
}

// NetRevenue computes net revenue from its components. Over-refunded orders
// legitimately produce negative values.
func NetRevenue(gross, refund, discount decimal.Decimal) decimal.Decimal {
	return gross.Sub(refund).Sub(discount)
}

// ExtractGrossAmount sums price_set.shop_amount over a raw line-items JSON
// array. Elements without that nested structure, or with values that do not
// convert, contribute zero. Unparseable input yields zero. Extraction never
// fails.
func ExtractGrossAmount(raw string) decimal.Decimal {
	value, ok := decodeValue(raw)
	if !ok {
		return decimal.Zero
	}
	items, ok := value.([]interface{})
	if !ok {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		priceSet, ok := obj["price_set"].(map[string]interface{})
		if !ok {
			continue
		}
		if amount, ok := toDecimal(priceSet["shop_amount"]); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// ExtractRefundAmount resolves a raw refunds field to a single amount. Bare
// numbers stand for themselves; objects resolve through shop_amount, then
// presentment_amount, then amount; arrays sum their resolved elements.
// Anything else yields zero.
func ExtractRefundAmount(raw string) decimal.Decimal {
	return extractAmount(raw, refundFields)
}

// ExtractDiscountAmount resolves a raw discounts field to a single amount.
// The shapes match ExtractRefundAmount but objects resolve through amount
// first, then shop_amount, then presentment_amount.
func ExtractDiscountAmount(raw string) decimal.Decimal {
	return extractAmount(raw, discountFields)
}

var (
	refundFields   = []string{"shop_amount", "presentment_amount", "amount"}
	discountFields = []string{"amount", "shop_amount", "presentment_amount"}
)

func extractAmount(raw string, fields []string) decimal.Decimal {
	value, ok := decodeValue(raw)
	if !ok {
		return decimal.Zero
	}
	return resolveAmount(value, fields)
}

func resolveAmount(value interface{}, fields []string) decimal.Decimal {
	switch v := value.(type) {
	case json.Number, string:
		if amount, ok := toDecimal(v); ok {
			return amount
		}
		return decimal.Zero
	case map[string]interface{}:
		return amountFromObject(v, fields)
	case []interface{}:
		total := decimal.Zero
		for _, item := range v {
			total = total.Add(resolveAmount(item, fields))
		}
		return total
	default:
		return decimal.Zero
	}
}

// amountFromObject walks the field preference chain and resolves on the
// first key present in the object. A present key whose value does not
// convert resolves to zero rather than falling through to later fields.
func amountFromObject(obj map[string]interface{}, fields []string) decimal.Decimal {
	for _, field := range fields {
		value, present := obj[field]
		if !present {
			continue
		}
		if amount, ok := toDecimal(value); ok {
			return amount
		}
		return decimal.Zero
	}
	return decimal.Zero
}

// decodeValue parses raw JSON into a generic value. Non-JSON numeric
// strings like "12.50" decode as json.Number, so they resolve the same way
// a bare JSON number does.
func decodeValue(raw string) (interface{}, bool) {
	if raw == "" {
		return nil, false
	}
	var value interface{}
	if err := jsonParser.UnmarshalFromString(raw, &value); err != nil {
		return nil, false
	}
	return value, true
}

func toDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Zero, false
	}
}

// cacheKey derives a stable key for a raw input triple.
func cacheKey(lineItems, refunds, discounts string) string {
	h := sha256.New()
	for _, part := range []string{lineItems, refunds, discounts} {
		var n [8]byte
		length := uint64(len(part))
		for i := 0; i < 8; i++ {
			n[i] = byte(length >> (8 * i))
		}
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return "revdecomp:" + hex.EncodeToString(h.Sum(nil))
}
