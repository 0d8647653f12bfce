package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"alfatelBack/internal/models"
)

// WisproConfig carries what the repository needs to talk to the Wispro cloud.
type WisproConfig struct {
	// Example: https://www.cloud.wispro.co
	BaseURL string

	// Static credential, sent as-is in the Authorization header.
	Token string

	Client *http.Client
	Logger *slog.Logger
}

// WisproRepository is the HTTP client for the Wispro billing API. All reads,
// no writes; every call is scoped to a single request lifetime via ctx.
type WisproRepository struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewWisproRepository(cfg WisproConfig) (*WisproRepository, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("wispro: base_url and token are required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("wispro: parse base url: %w", err)
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WisproRepository{
		baseURL:    u,
		token:      cfg.Token,
		httpClient: client,
		logger:     logger,
	}, nil
}

// WisproError describes a non-2xx answer from the upstream API.
type WisproError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *WisproError) Error() string {
	return fmt.Sprintf("wispro: %s: %s", e.Status, trim(e.Body, 300))
}

func (r *WisproRepository) SearchClientsByCedula(ctx context.Context, cedula string) ([]models.Client, error) {
	var out []models.Client
	err := r.getData(ctx, "/api/v1/clients", url.Values{"national_identification_number_eq": {cedula}}, &out)
	return out, err
}

func (r *WisproRepository) SearchClientsByRUC(ctx context.Context, ruc string) ([]models.Client, error) {
	var out []models.Client
	err := r.getData(ctx, "/api/v1/clients", url.Values{"taxpayer_identification_number_eq": {ruc}}, &out)
	return out, err
}

func (r *WisproRepository) SearchClientsByCedulaContains(ctx context.Context, cedula string) ([]models.Client, error) {
	var out []models.Client
	err := r.getData(ctx, "/api/v1/clients", url.Values{"national_identification_number_cont": {cedula}}, &out)
	return out, err
}

func (r *WisproRepository) ListPendingInvoices(ctx context.Context, clientID string) ([]models.Invoice, error) {
	var out []models.Invoice
	query := url.Values{
		"client_id_eq": {clientID},
		"state_eq":     {models.InvoiceStatePending},
	}
	err := r.getData(ctx, "/api/v1/invoicing/invoices", query, &out)
	return out, err
}

func (r *WisproRepository) ListContracts(ctx context.Context, clientID string) ([]models.Contract, error) {
	var out []models.Contract
	err := r.getData(ctx, "/api/v1/contracts", url.Values{"client_id_eq": {clientID}}, &out)
	return out, err
}

func (r *WisproRepository) GetPlan(ctx context.Context, planID string) (models.Plan, error) {
	endpoint := *r.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/plans", planID)

	body, err := r.get(ctx, endpoint.String())
	if err != nil {
		return models.Plan{}, err
	}

	// Some deployments wrap single records in {"data": {...}}, some don't.
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	raw := body
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Data) > 0 {
		raw = wrapped.Data
	}
	var plan models.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return models.Plan{}, fmt.Errorf("wispro: decode plan: %w", err)
	}
	return plan, nil
}

// getData fetches a collection endpoint and decodes the {"data": [...]}
// envelope into dst.
func (r *WisproRepository) getData(ctx context.Context, apiPath string, query url.Values, dst any) error {
	endpoint := *r.baseURL
	endpoint.Path = path.Join(endpoint.Path, apiPath)
	endpoint.RawQuery = query.Encode()

	body, err := r.get(ctx, endpoint.String())
	if err != nil {
		return err
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: dst}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("wispro: decode %s: %w", apiPath, err)
	}
	return nil
}

func (r *WisproRepository) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wispro: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", r.token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wispro: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wispro: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("wispro non-2xx", "status", resp.Status, "url", req.URL.Path)
		return nil, &WisproError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	return body, nil
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
