package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andrewpaige1/memora/utils"
)

// POST /api/metrics
//
// Anonymous clients may report metrics; the user is attached when the
// request carries a valid token.
func (db *DBHandler) StoreMetric(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		utils.WriteError(w, http.StatusBadRequest, "type is required")
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		req.Data = json.RawMessage(`{}`)
	}

	var userID *uint
	if user := currentUser(r); user != nil {
		userID = &user.ID
	}

	m, err := db.CreateMetric(r.Context(), userID, req.Type, req.Data)
	if err != nil {
		storeError(w, r, "StoreMetric", err, "Metric not found")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "metric_id": m.ID})
}

// GET /api/metrics/dashboard
func (db *DBHandler) GetMetricsDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := db.Dashboard(r.Context())
	if err != nil {
		storeError(w, r, "GetMetricsDashboard", err, "Metrics not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, d)
}
