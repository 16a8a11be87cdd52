// handlers/pages.go
package handlers

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <title>PayHero STK Push</title>
  <style>
    body {
      font-family: 'Poppins', sans-serif;
      background: linear-gradient(to bottom right, #0077ff, #00c6ff);
      color: #fff;
      text-align: center;
      padding-top: 100px;
    }
    input { padding: 10px; width: 220px; border: none; border-radius: 6px; }
    button {
      padding: 10px 20px;
      border: none;
      border-radius: 6px;
      background: #fff;
      color: #0077ff;
      cursor: pointer;
      margin-top: 10px;
    }
    button:hover { background: #e3e3e3; }
    #status { margin-top: 20px; font-size: 18px; }
  </style>
</head>
<body>
  <h1>PayHero STK Push</h1>
  <form id="payForm">
    <input id="phone" name="phone" placeholder="2547XXXXXXXX" required><br><br>
    <input id="amount" name="amount" placeholder="Amount (KES)" required><br><br>
    <button type="submit">Initialize STK Push</button>
  </form>
  <div id="status"></div>
  <script>
    document.getElementById("payForm").addEventListener("submit", async (e) => {
      e.preventDefault();
      const status = document.getElementById("status");
      status.textContent = "Processing STK Push...";
      try {
        const res = await fetch("/api/payments/stkpush", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            phone: document.getElementById("phone").value.trim(),
            amount: document.getElementById("amount").value.trim(),
          }),
        });
        const data = await res.json();
        if (data.success) {
          status.textContent = "STK Push sent! Check your phone for the M-Pesa prompt.";
        } else {
          status.textContent = "Failed: " + (data.message || data.error || "Unknown error");
        }
      } catch (err) {
        status.textContent = "Error: " + err.message;
      }
    });
  </script>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Index serves the payment form page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		log.Error("Failed to render index page: ", err)
	}
}
