package clients

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizeRecord maps one raw imported record onto a Client. Records
// come from several generations of the old counter system, so every
// field is looked up under each key that generation used. Unknown
// keys are ignored; a record with no recognisable name is still
// returned so the caller can decide what to do with it.
func NormalizeRecord(raw map[string]any) Client {
	c := Client{
		Name:         pickString(raw, "name", "client_name", "nombre", "razon_social"),
		Phone:        pickString(raw, "phone", "telefono", "tel", "mobile"),
		Email:        pickString(raw, "email", "correo"),
		TaxID:        strings.ToUpper(pickString(raw, "tax_id", "rfc", "taxId")),
		TaxUsageCode: strings.ToUpper(pickString(raw, "tax_usage_code", "uso_cfdi", "usoCfdi")),
		PostalCode:   pickString(raw, "postal_code", "cp", "codigo_postal", "zip"),
		Notes:        pickString(raw, "notes", "notas", "comments"),
	}
	c.ID = pickID(raw, "id", "client_id", "_id", "clientId")
	return c
}

// pickString returns the first non-empty string value among keys.
func pickString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

// pickID tolerates ids stored as numbers, numeric strings, or JSON
// number literals.
func pickID(raw map[string]any, keys ...string) int64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch id := v.(type) {
		case int64:
			if id > 0 {
				return id
			}
		case float64:
			if id > 0 {
				return int64(id)
			}
		case json.Number:
			if n, err := id.Int64(); err == nil && n > 0 {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}
