package other

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawProduct is a product record exactly as a catalog backend returned it.
// Backends disagree on field names and scalar types, so values are kept
// loosely typed and read through the accessors below.
type RawProduct map[string]any

// ProductPage is the paged envelope returned by get-all-products.
type ProductPage struct {
	Content       []RawProduct `json:"content"`
	TotalPages    int          `json:"totalPages"`
	TotalElements int          `json:"totalElements"`
	Number        int          `json:"number"`
	Size          int          `json:"size"`
}

// DecodeRawProduct decodes one record keeping numbers exact.
func DecodeRawProduct(data []byte) (RawProduct, error) {
	var raw RawProduct
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode product: empty body")
	}
	return raw, nil
}

// DecodeProductList accepts either a bare JSON array or a ProductPage.
func DecodeProductList(data []byte) ([]RawProduct, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '[' {
		var list []RawProduct
		if err := dec.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
		return list, nil
	}

	var page ProductPage
	if err := dec.Decode(&page); err != nil {
		return nil, fmt.Errorf("decode product page: %w", err)
	}
	return page.Content, nil
}

func (r RawProduct) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the first non-blank value among keys. Numeric ids are
// rendered without exponent.
func (r RawProduct) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(r[k]); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Decimal returns the first non-zero amount among keys. Currency symbols
// and thousands separators are tolerated.
func (r RawProduct) Decimal(keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		d, ok := asDecimal(r[k])
		if ok && !d.IsZero() {
			return d, true
		}
	}
	return decimal.Zero, false
}

func (r RawProduct) Int(keys ...string) (int, bool) {
	for _, k := range keys {
		if d, ok := asDecimal(r[k]); ok {
			return int(d.IntPart()), true
		}
	}
	return 0, false
}

func (r RawProduct) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		if d, ok := asDecimal(r[k]); ok {
			f, _ := d.Float64()
			return f, true
		}
	}
	return 0, false
}

func (r RawProduct) Bool(key string) (bool, bool) {
	switch v := r[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	case json.Number:
		return v.String() != "0", true
	case float64:
		return v != 0, true
	}
	return false, false
}

// List returns the first non-empty list among keys. A value may be a JSON
// array, a string holding a JSON array, or a comma separated string.
func (r RawProduct) List(keys ...string) []string {
	for _, k := range keys {
		if l := asList(r[k]); len(l) > 0 {
			return l
		}
	}
	return nil
}

// Text joins array values with ". " so list-shaped descriptions read as prose.
func (r RawProduct) Text(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := asString(item); ok && strings.TrimSpace(s) != "" {
					parts = append(parts, strings.TrimSpace(s))
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ". ")
			}
		default:
			if s, ok := asString(v); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, t)
		if cleaned == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		return d, err == nil
	}
	return decimal.Zero, false
}

func asList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := asString(item); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var decoded []any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				return asList(decoded)
			}
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}
