// handlers/admin_handlers.go
package handlers

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/beratech/payhero-backend/models"
)

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Admin Dashboard | BERA TECH</title>
  <style>
    body { font-family: Arial; background:#0d1117; color:#fff; padding:20px; }
    table { width:100%; border-collapse:collapse; background:#161b22; }
    th, td { border:1px solid #222; padding:10px; text-align:left; }
    th { background:#00a859; color:white; }
    tr:nth-child(even) { background:#1f2937; }
  </style>
</head>
<body>
  <h1>Transaction Logs</h1>
  <table>
    <tr><th>Date</th><th>Phone</th><th>Amount</th><th>Status</th><th>Message</th><th>Reference</th></tr>
    {{range .}}<tr>
      <td>{{.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}</td>
      <td>{{.Phone}}</td><td>{{.Amount}}</td><td>{{.Status}}</td>
      <td>{{.Message}}</td><td>{{.Reference}}</td>
    </tr>{{end}}
  </table>
</body>
</html>
`

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

// authorizeAdmin gates the admin surface on the shared-secret query
// parameter. Plain equality is the only access control.
func (h *Handlers) authorizeAdmin(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("pass") != h.config.AdminPassword {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<h2>Access Denied</h2>"))
		return false
	}
	return true
}

// AdminDashboard renders the full transaction log as an HTML table.
func (h *Handlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeAdmin(w, r) {
		return
	}

	entries, err := h.Store.List(r.Context())
	if err != nil {
		log.WithField("kind", models.ErrorKindPersistenceFailure).
			Error("Failed to read transaction log: ", err)
		http.Error(w, "Failed to load transaction logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, entries); err != nil {
		log.Error("Failed to render dashboard: ", err)
	}
}

// AdminTransactions returns the full transaction log as JSON.
func (h *Handlers) AdminTransactions(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeAdmin(w, r) {
		return
	}

	entries, err := h.Store.List(r.Context())
	if err != nil {
		log.WithField("kind", models.ErrorKindPersistenceFailure).
			Error("Failed to read transaction log: ", err)
		respondWithError(w, http.StatusInternalServerError, models.ErrorKindPersistenceFailure,
			"Failed to load transaction logs")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": entries,
		"total":        len(entries),
	})
}
