package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"alfatelBack/internal/models"
)

const (
	// Cédula personal → RUC: los negocios unipersonales llevan el sufijo de
	// establecimiento "001".
	rucSuffix = "001"

	defaultPlanName = "Plan Básico"
	noIPPlaceholder = "---"
	estadoUnknown   = "desconocido"
)

// WisproAPI is the slice of the billing API the consulta pipeline needs.
// Implemented by repositories.WisproRepository.
type WisproAPI interface {
	SearchClientsByCedula(ctx context.Context, cedula string) ([]models.Client, error)
	SearchClientsByRUC(ctx context.Context, ruc string) ([]models.Client, error)
	SearchClientsByCedulaContains(ctx context.Context, cedula string) ([]models.Client, error)
	ListPendingInvoices(ctx context.Context, clientID string) ([]models.Invoice, error)
	ListContracts(ctx context.Context, clientID string) ([]models.Contract, error)
	GetPlan(ctx context.Context, planID string) (models.Plan, error)
}

type ConsultaService struct {
	Repo   WisproAPI
	Logger *slog.Logger
}

func NewConsultaService(repo WisproAPI, logger *slog.Logger) *ConsultaService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsultaService{Repo: repo, Logger: logger}
}

// NormalizeCedula reduces a raw identity string to its digits. Copy-pasted
// cédulas arrive with spaces, tabs and hyphens; everything except digits is
// dropped so the exact-match upstream filters can work.
func NormalizeCedula(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Consultar resolves a cédula to a client and returns the aggregated debt
// summary. Returns models.ErrCedulaRequired on empty input and
// models.ErrClientNotFound when no lookup strategy matches.
func (s *ConsultaService) Consultar(ctx context.Context, cedula string) (models.ResumenDeuda, error) {
	cedula = NormalizeCedula(cedula)
	if cedula == "" {
		return models.ResumenDeuda{}, models.ErrCedulaRequired
	}

	client, err := s.resolveClient(ctx, cedula)
	if err != nil {
		return models.ResumenDeuda{}, err
	}

	if client.ID.String() == "" {
		// Registro corrupto en Wispro: sin id no hay con qué cruzar facturas.
		s.Logger.Warn("client resolved without internal id", "cedula", cedula, "name", client.Name)
		return models.ResumenDeuda{
			Nombre:     client.Name,
			Estado:     estadoUnknown,
			Plan:       fallbackPlan(client),
			IP:         noIPPlaceholder,
			Encontrado: true,
		}, nil
	}

	var (
		wg        sync.WaitGroup
		invoices  []models.Invoice
		contracts []models.Contract
		invErr    error
		conErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		invoices, invErr = s.Repo.ListPendingInvoices(ctx, client.ID.String())
	}()
	go func() {
		defer wg.Done()
		contracts, conErr = s.Repo.ListContracts(ctx, client.ID.String())
	}()
	wg.Wait()
	if invErr != nil {
		return models.ResumenDeuda{}, invErr
	}
	if conErr != nil {
		return models.ResumenDeuda{}, conErr
	}

	agg := s.aggregateInvoices(client, invoices)
	contract := selectContract(contracts)

	estado := contract.State
	if estado == "" {
		estado = estadoUnknown
	}
	ip := contract.IP
	if ip == "" {
		ip = noIPPlaceholder
	}

	return models.ResumenDeuda{
		Nombre:             client.Name,
		Estado:             estado,
		Plan:               s.resolvePlanName(ctx, contract, client),
		IP:                 ip,
		Deuda:              agg.total.Round(2).InexactFloat64(),
		FechaVencimiento:   agg.fechaVencimiento,
		Encontrado:         true,
		FacturasPendientes: agg.incluidas,
		FacturasExcluidas:  agg.excluidas,
	}, nil
}

// ValidarCliente answers whether a cédula belongs to a registered customer.
// Used by the registration flow; only the resolver runs.
func (s *ConsultaService) ValidarCliente(ctx context.Context, cedula string) (bool, error) {
	cedula = NormalizeCedula(cedula)
	if cedula == "" {
		return false, models.ErrCedulaRequired
	}
	_, err := s.resolveClient(ctx, cedula)
	if errors.Is(err, models.ErrClientNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// resolveClient tries the lookup strategies in order and stops at the first
// hit. The order matters: exact cédula, RUC derived from the cédula, raw value
// as RUC, and only then the fuzzy contains-match.
func (s *ConsultaService) resolveClient(ctx context.Context, cedula string) (models.Client, error) {
	lookups := []func(context.Context) ([]models.Client, error){
		func(ctx context.Context) ([]models.Client, error) {
			return s.Repo.SearchClientsByCedula(ctx, cedula)
		},
		func(ctx context.Context) ([]models.Client, error) {
			return s.Repo.SearchClientsByRUC(ctx, cedula+rucSuffix)
		},
		func(ctx context.Context) ([]models.Client, error) {
			return s.Repo.SearchClientsByRUC(ctx, cedula)
		},
		func(ctx context.Context) ([]models.Client, error) {
			return s.Repo.SearchClientsByCedulaContains(ctx, cedula)
		},
	}

	for _, lookup := range lookups {
		clients, err := lookup(ctx)
		if err != nil {
			return models.Client{}, err
		}
		if len(clients) > 0 {
			// Varios resultados: nos quedamos con el primero, igual que
			// siempre lo hizo el sistema.
			return clients[0], nil
		}
	}
	return models.Client{}, models.ErrClientNotFound
}

type deudaAgregada struct {
	total            decimal.Decimal
	fechaVencimiento string
	incluidas        int
	excluidas        int
}

// aggregateInvoices sums the invoices that genuinely belong to the client and
// are genuinely owed. The upstream client_id filter is known to leak other
// customers' invoices, so ownership is re-checked locally on every record.
func (s *ConsultaService) aggregateInvoices(client models.Client, invoices []models.Invoice) deudaAgregada {
	agg := deudaAgregada{total: decimal.Zero}

	for _, f := range invoices {
		if f.ClientID.String() != client.ID.String() {
			s.Logger.Warn("invoice leaked by upstream filter, excluded",
				"invoice_id", f.ID.String(), "invoice_client", f.ClientID.String(), "client", client.ID.String())
			agg.excluidas++
			continue
		}
		switch f.State {
		case models.InvoiceStateVoid, models.InvoiceStateVoided, models.InvoiceStateDraft:
			continue
		}
		monto, ok := parseBalance(f.Balance)
		if !ok {
			s.Logger.Warn("unparseable invoice balance, excluded",
				"invoice_id", f.ID.String(), "balance", f.Balance)
			agg.excluidas++
			continue
		}
		if monto.Sign() <= 0 {
			continue
		}

		agg.total = agg.total.Add(monto)
		agg.incluidas++

		if fecha := dueDate(f); fecha != "" {
			if agg.fechaVencimiento == "" || fecha < agg.fechaVencimiento {
				agg.fechaVencimiento = fecha
			}
		}
	}
	return agg
}

// parseBalance keeps digits, the decimal point and a leading minus sign, then
// parses the rest. "$1,250.50" → 1250.50. Anything unparseable reports false.
func parseBalance(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// dueDate picks the displayable due date for one invoice: first due date,
// second due date, or the date part of the creation timestamp.
func dueDate(f models.Invoice) string {
	if f.FirstDueDate != "" {
		return f.FirstDueDate
	}
	if f.SecondDueDate != "" {
		return f.SecondDueDate
	}
	if f.CreatedAt != "" {
		return strings.SplitN(f.CreatedAt, "T", 2)[0]
	}
	return ""
}

// selectContract picks the representative contract: first enabled one, else
// first disabled one, else an empty record.
func selectContract(contracts []models.Contract) models.Contract {
	for _, c := range contracts {
		if c.State == models.ContractStateEnabled {
			return c
		}
	}
	for _, c := range contracts {
		if c.State == models.ContractStateDisabled {
			return c
		}
	}
	return models.Contract{}
}

// resolvePlanName walks the plan fallback chain: contract plan_name, the plan
// record behind plan_id, the client's own plan_name, and finally the default.
// A failed plan fetch is not fatal; the chain just continues.
func (s *ConsultaService) resolvePlanName(ctx context.Context, contract models.Contract, client models.Client) string {
	if contract.PlanName != "" {
		return contract.PlanName
	}
	if contract.PlanID.String() != "" {
		plan, err := s.Repo.GetPlan(ctx, contract.PlanID.String())
		if err != nil {
			s.Logger.Warn("plan lookup failed", "plan_id", contract.PlanID.String(), "error", err)
		} else if plan.Name != "" {
			return plan.Name
		}
	}
	return fallbackPlan(client)
}

func fallbackPlan(client models.Client) string {
	if client.PlanName != "" {
		return client.PlanName
	}
	return defaultPlanName
}
