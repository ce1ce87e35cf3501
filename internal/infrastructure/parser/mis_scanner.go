package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CallbackNotifier/internal/domain"
	"CallbackNotifier/internal/scanner"
)

const userAgent = "CallbackNotifier/1.0"

// ErrFilterNotFound is returned when no <option> carries the filter label.
var ErrFilterNotFound = errors.New("filter option not found")

// MISScanner reads callback tables from server-rendered MIS dashboards.
// It authenticates with HTTP Basic auth, submits the status filter form and
// returns the cell text of every "table tbody tr" row.
type MISScanner struct {
	client   *http.Client
	username string
	password string
	logger   *slog.Logger
}

var _ scanner.Scanner = (*MISScanner)(nil)

// NewMISScanner wires an HTTP client; a nil client gets a 30s timeout.
func NewMISScanner(client *http.Client, username, password string, logger *slog.Logger) *MISScanner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &MISScanner{client: client, username: username, password: password, logger: logger}
}

// Name identifies the strategy inside the registry.
func (m *MISScanner) Name() string {
	return scanner.DefaultName
}

// Scan loads the source page, applies the filter label and extracts rows.
func (m *MISScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Row, error) {
	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url %s: %w", req.URL, err)
	}

	httpReq, err := m.newRequest(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, err
	}
	doc, err := m.fetchDocument(httpReq)
	if err != nil {
		return nil, err
	}

	if req.FilterLabel != "" {
		m.debug("applying filter", "source", req.SourceName, "filter", req.FilterLabel)
		filterReq, err := m.filterRequest(ctx, doc, base, req.FilterLabel)
		if err != nil {
			return nil, err
		}
		doc, err = m.fetchDocument(filterReq)
		if err != nil {
			return nil, err
		}
	}

	rows, err := extractRows(doc)
	if err != nil {
		return nil, err
	}
	m.debug("rows found", "source", req.SourceName, "count", len(rows))
	return rows, nil
}

func (m *MISScanner) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if m.username != "" || m.password != "" {
		req.SetBasicAuth(m.username, m.password)
	}
	return req, nil
}

func (m *MISScanner) fetchDocument(req *http.Request) (*goquery.Document, error) {
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mis returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// filterRequest finds the <option> labelled label, then rebuilds the
// enclosing form submission with that option selected.
func (m *MISScanner) filterRequest(ctx context.Context, doc *goquery.Document, base *url.URL, label string) (*http.Request, error) {
	var selectNode *goquery.Selection
	var optionValue string

	doc.Find("select").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		sel.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
			if strings.TrimSpace(opt.Text()) != label {
				return true
			}
			optionValue = strings.TrimSpace(opt.Text())
			if v, ok := opt.Attr("value"); ok {
				optionValue = v
			}
			selectNode = sel
			return false
		})
		return selectNode == nil
	})

	if selectNode == nil {
		return nil, fmt.Errorf("%w: %q", ErrFilterNotFound, label)
	}
	name, ok := selectNode.Attr("name")
	if !ok || name == "" {
		return nil, fmt.Errorf("filter select for %q has no name", label)
	}

	form := selectNode.Closest("form")
	values := formValues(form)
	values.Set(name, optionValue)

	action := base
	if raw, ok := form.Attr("action"); ok && strings.TrimSpace(raw) != "" {
		ref, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid form action %s: %w", raw, err)
		}
		action = base.ResolveReference(ref)
	}

	method, _ := form.Attr("method")
	if strings.EqualFold(strings.TrimSpace(method), http.MethodPost) {
		req, err := m.newRequest(ctx, http.MethodPost, action.String(), strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	target := *action
	query := target.Query()
	for key, vals := range values {
		query[key] = vals
	}
	target.RawQuery = query.Encode()
	return m.newRequest(ctx, http.MethodGet, target.String(), nil)
}

// formValues collects the fields a browser would submit with form.
func formValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	if form.Length() == 0 {
		return values
	}

	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		kind, _ := input.Attr("type")
		switch strings.ToLower(kind) {
		case "submit", "button", "reset", "file", "image":
			return
		case "checkbox", "radio":
			if _, checked := input.Attr("checked"); !checked {
				return
			}
		}
		value, _ := input.Attr("value")
		values.Add(name, value)
	})

	form.Find("select[name]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		opt := sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = sel.Find("option").First()
		}
		if opt.Length() == 0 {
			return
		}
		value, ok := opt.Attr("value")
		if !ok {
			value = strings.TrimSpace(opt.Text())
		}
		values.Set(name, value)
	})

	return values
}

func extractRows(doc *goquery.Document) ([]domain.Row, error) {
	if doc.Find("table").Length() == 0 {
		return nil, fmt.Errorf("result table not found")
	}

	var rows []domain.Row
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		row := make(domain.Row, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, row)
	})
	return rows, nil
}

func (m *MISScanner) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
