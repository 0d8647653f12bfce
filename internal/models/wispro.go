package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexID tolerates the Wispro API sending record references either as JSON
// strings or as bare numbers, depending on the collection. It always stores
// the canonical string form.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// 4060.0 and 4060 must coerce to the same key
	if i, err := n.Int64(); err == nil {
		*f = FlexID(strconv.FormatInt(i, 10))
		return nil
	}
	if fl, err := n.Float64(); err == nil && fl == float64(int64(fl)) {
		*f = FlexID(strconv.FormatInt(int64(fl), 10))
		return nil
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// Client is a customer record in the Wispro clients collection.
type Client struct {
	ID          FlexID `json:"id"`
	Name        string `json:"name"`
	Cedula      string `json:"national_identification_number"`
	RUC         string `json:"taxpayer_identification_number"`
	PlanName    string `json:"plan_name"`
	PublicID    string `json:"public_id"`
	PhoneNumber string `json:"phone_mobile"`
}

// Invoice lifecycle states seen in the invoicing collection.
const (
	InvoiceStatePending = "pending"
	InvoiceStatePaid    = "paid"
	InvoiceStateVoid    = "void"
	InvoiceStateVoided  = "voided"
	InvoiceStateDraft   = "draft"
)

// Invoice is one billing line. Balance arrives as a string and may carry
// currency symbols or thousands separators.
type Invoice struct {
	ID            FlexID `json:"id"`
	ClientID      FlexID `json:"client_id"`
	ClientName    string `json:"client_name"`
	Balance       string `json:"balance"`
	State         string `json:"state"`
	FirstDueDate  string `json:"first_due_date"`
	SecondDueDate string `json:"second_due_date"`
	CreatedAt     string `json:"created_at"`
	IssuedAt      string `json:"issued_at"`
}

// Contract states used by the selector; the API has more, but only these two
// take part in the priority rule.
const (
	ContractStateEnabled  = "enabled"
	ContractStateDisabled = "disabled"
)

// Contract is a service subscription tied to a client.
type Contract struct {
	ID       FlexID `json:"id"`
	ClientID FlexID `json:"client_id"`
	State    string `json:"state"`
	IP       string `json:"ip"`
	PlanName string `json:"plan_name"`
	PlanID   FlexID `json:"plan_id"`
}

// Plan is the subscription plan record, only fetched when a contract carries
// plan_id but no plan_name.
type Plan struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}
