package models

// ResumenDeuda is the widget-facing result of one lookup. Field names keep the
// wire format the frontend already consumes.
type ResumenDeuda struct {
	Nombre             string  `json:"nombre"`
	Estado             string  `json:"estado"`
	Plan               string  `json:"plan"`
	IP                 string  `json:"ip"`
	Deuda              float64 `json:"deuda"`
	FechaVencimiento   string  `json:"fechaVencimiento,omitempty"`
	Encontrado         bool    `json:"encontrado"`
	FacturasPendientes int     `json:"facturasPendientes"`
	FacturasExcluidas  int     `json:"facturasExcluidas,omitempty"`
}

// ValidacionCliente answers the registration-flow existence check.
type ValidacionCliente struct {
	Existe bool `json:"existe"`
}
