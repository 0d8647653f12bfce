package repositories

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func newTestRepo(t *testing.T, handler http.HandlerFunc) *WisproRepository {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	repo, err := NewWisproRepository(WisproConfig{
		BaseURL: ts.URL,
		Token:   "secret-token",
		Client:  ts.Client(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repo
}

func TestNewWisproRepository_RequiresBaseURLAndToken(t *testing.T) {
	if _, err := NewWisproRepository(WisproConfig{BaseURL: "https://example.com"}); err == nil {
		t.Errorf("expected error without token")
	}
	if _, err := NewWisproRepository(WisproConfig{Token: "t"}); err == nil {
		t.Errorf("expected error without base url")
	}
}

func TestSearchClientsByCedula_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAccept string
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("national_identification_number_eq")
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"data": [{"id": "c-1", "name": "MARIA PEREZ"}]}`))
	})

	clients, err := repo.SearchClientsByCedula(context.Background(), "1750020")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/clients" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "1750020" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "secret-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
	if len(clients) != 1 || clients[0].Name != "MARIA PEREZ" {
		t.Errorf("unexpected clients: %+v", clients)
	}
}

func TestListPendingInvoices_FiltersAndCoercesIDs(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("client_id_eq") != "4060" {
			t.Errorf("client_id_eq = %q", r.URL.Query().Get("client_id_eq"))
		}
		if r.URL.Query().Get("state_eq") != "pending" {
			t.Errorf("state_eq = %q", r.URL.Query().Get("state_eq"))
		}
		// upstream sends client_id as a bare number here
		w.Write([]byte(`{"data": [{"id": 9001, "client_id": 4060, "balance": "42.00", "state": "pending"}]}`))
	})

	invoices, err := repo.ListPendingInvoices(context.Background(), "4060")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected one invoice, got %d", len(invoices))
	}
	if invoices[0].ClientID.String() != "4060" {
		t.Errorf("client_id coerced to %q, want \"4060\"", invoices[0].ClientID.String())
	}
	if invoices[0].Balance != "42.00" {
		t.Errorf("balance = %q", invoices[0].Balance)
	}
}

func TestGet_Non2xxReturnsWisproError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	})

	_, err := repo.ListContracts(context.Background(), "c-1")
	var werr *WisproError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WisproError, got %v", err)
	}
	if werr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", werr.StatusCode)
	}
}

func TestGet_MalformedJSONReturnsError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	if _, err := repo.SearchClientsByRUC(context.Background(), "1750020001"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestGetPlan_WrappedAndBareRecords(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/plans/p-9" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data": {"id": "p-9", "name": "Fibra 300"}}`))
	})
	plan, err := repo.GetPlan(context.Background(), "p-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Name != "Fibra 300" {
		t.Errorf("plan name = %q", plan.Name)
	}

	repo = newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "p-9", "name": "Fibra 300"}`))
	})
	plan, err = repo.GetPlan(context.Background(), "p-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Name != "Fibra 300" {
		t.Errorf("bare plan name = %q", plan.Name)
	}
}

func TestListContracts_EmptyData(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})
	contracts, err := repo.ListContracts(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contracts) != 0 {
		t.Errorf("expected no contracts, got %d", len(contracts))
	}
}

func TestTrim_RuneBoundaries(t *testing.T) {
	short := "todo bien"
	if got := trim(short, 300); got != short {
		t.Errorf("short string changed: %q", got)
	}

	long := "x" + strings.Repeat("€", 150)
	got := trim(long, 300)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("trim produced invalid UTF-8: %q", got)
	}
	if len(got) > 303 {
		t.Errorf("trim too long: %d bytes", len(got))
	}
}
