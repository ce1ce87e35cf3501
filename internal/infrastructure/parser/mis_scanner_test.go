package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"CallbackNotifier/internal/scanner"
)

const dashboardPage = `
<html><body>
<form action="/mis/list" method="get">
  <input type="hidden" name="page" value="1">
  <input type="submit" name="go" value="Apply Filter">
  <select name="status">
    <option value="">Filter by status</option>
    <option value="2">Recall</option>
    <option value="3">Closed</option>
  </select>
</form>
<table><tbody>
  <tr><td>UNFILTERED</td><td>x</td></tr>
</tbody></table>
</body></html>`

const recallPage = `
<html><body>
<table>
  <thead><tr><th>#</th><th>Proposal</th><th>Remarks</th></tr></thead>
  <tbody>
    <tr><td>1</td><td> P-100 </td><td>Call At July 21st 2025, 3:45 PM</td></tr>
    <tr><td>2</td><td>P-101</td></tr>
  </tbody>
</table>
</body></html>`

func newMISServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "visit" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.URL.Path == "/mis" && r.URL.RawQuery == "":
			_, _ = w.Write([]byte(dashboardPage))
		case r.URL.Path == "/mis/list" && r.URL.Query().Get("status") == "2" && r.URL.Query().Get("page") == "1":
			if r.URL.Query().Has("go") {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(recallPage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestMISScannerScan(t *testing.T) {
	t.Parallel()

	server := newMISServer(t)
	defer server.Close()

	sc := NewMISScanner(server.Client(), "visit", "secret", nil)
	rows, err := sc.Scan(context.Background(), scanner.Request{
		SourceName:  "Visit",
		URL:         server.URL + "/mis",
		FilterLabel: "Recall",
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "P-100" || rows[0][2] != "Call At July 21st 2025, 3:45 PM" {
		t.Fatalf("unexpected first row: %q", rows[0])
	}
	if len(rows[1]) != 2 {
		t.Fatalf("short row should be returned as is: %q", rows[1])
	}
}

func TestMISScannerUnauthorized(t *testing.T) {
	t.Parallel()

	server := newMISServer(t)
	defer server.Close()

	sc := NewMISScanner(server.Client(), "visit", "wrong", nil)
	_, err := sc.Scan(context.Background(), scanner.Request{URL: server.URL + "/mis", FilterLabel: "Recall"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestMISScannerUnknownFilter(t *testing.T) {
	t.Parallel()

	server := newMISServer(t)
	defer server.Close()

	sc := NewMISScanner(server.Client(), "visit", "secret", nil)
	_, err := sc.Scan(context.Background(), scanner.Request{URL: server.URL + "/mis", FilterLabel: "Pending"})
	if !errors.Is(err, ErrFilterNotFound) || !strings.Contains(err.Error(), "Pending") {
		t.Fatalf("expected missing filter error, got %v", err)
	}
}

func TestMISScannerWithoutFilter(t *testing.T) {
	t.Parallel()

	server := newMISServer(t)
	defer server.Close()

	rows, err := NewMISScanner(server.Client(), "visit", "secret", nil).Scan(context.Background(), scanner.Request{URL: server.URL + "/mis"})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "UNFILTERED" {
		t.Fatalf("unexpected rows: %q", rows)
	}
}

func TestFormValuesPost(t *testing.T) {
	t.Parallel()

	html := `
	<form method="post">
	  <input name="csrf" value="abc">
	  <input type="checkbox" name="mine" value="1" checked>
	  <input type="checkbox" name="archived" value="1">
	  <select name="region"><option value="n">North</option><option value="s" selected>South</option></select>
	</form>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	values := formValues(doc.Find("form"))
	if values.Get("csrf") != "abc" || values.Get("mine") != "1" || values.Get("region") != "s" {
		t.Fatalf("unexpected values: %v", values)
	}
	if values.Has("archived") {
		t.Fatalf("unchecked checkbox must not be submitted")
	}
}

func TestExtractRowsWithoutTable(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p>Session expired</p>`))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if _, err := extractRows(doc); err == nil {
		t.Fatalf("expected missing table error")
	}
}
