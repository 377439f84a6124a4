package httpapi

import "net/http"

// Resource schemas served on OPTIONS ?schema=1. Forms use them to render
// filters and validation hints.
var (
	notificationSchema = map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"title":    "Notification",
		"type":     "object",
		"required": []string{"id", "type", "status", "content", "created_at"},
		"properties": map[string]any{
			"id":         map[string]any{"type": "string"},
			"type":       map[string]any{"type": "string", "enum": []string{"wallet", "investment", "accreditation", "system"}},
			"status":     map[string]any{"type": "string", "enum": []string{"unread", "read"}},
			"content":    map[string]any{"type": "string"},
			"data":       map[string]any{"type": "object"},
			"created_at": map[string]any{"type": "string", "format": "date-time"},
			"read_at":    map[string]any{"type": []string{"string", "null"}, "format": "date-time"},
		},
	}

	investmentSchema = map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"title":    "Investment",
		"type":     "object",
		"required": []string{"id", "offer_name", "amount", "status"},
		"properties": map[string]any{
			"id":               map[string]any{"type": "string"},
			"profile_id":       map[string]any{"type": "string"},
			"offer_name":       map[string]any{"type": "string"},
			"amount":           map[string]any{"type": "number", "minimum": 0},
			"number_of_shares": map[string]any{"type": "integer", "minimum": 0},
			"status":           map[string]any{"type": "string", "enum": []string{"started", "pending", "confirmed", "cancelled"}},
			"documents":        map[string]any{"type": "array"},
			"created_at":       map[string]any{"type": "string", "format": "date-time"},
		},
	}
)

func writeSchema(w http.ResponseWriter, r *http.Request, schema map[string]any, allow string) {
	w.Header().Set("Allow", allow)
	if r.URL.Query().Get("schema") == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func (s *Server) NotificationsSchema(w http.ResponseWriter, r *http.Request) {
	writeSchema(w, r, notificationSchema, "GET, OPTIONS")
}

func (s *Server) InvestmentsSchema(w http.ResponseWriter, r *http.Request) {
	writeSchema(w, r, investmentSchema, "GET, OPTIONS")
}
