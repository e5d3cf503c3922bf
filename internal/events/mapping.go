package events

import (
	"fmt"
	"strings"

	"whatsapp-notify/internal/templates"
)

// EventKey identifies a business event that triggers a notification. The set
// is closed: anything outside the mapping table below is rejected before any
// database or network access.
type EventKey string

const (
	EventWalletCreated     EventKey = "wallet_created"
	EventTopupConfirmation EventKey = "topup_confirmation"
	EventVisitorCheckin    EventKey = "visitor_checkin"
	EventParcelReceived    EventKey = "parcel_received"
	EventPaymentDue        EventKey = "payment_due"
	EventAnnouncement      EventKey = "community_announcement"
)

// Format selects how an extracted payload field is rendered into a template
// argument.
type Format int

const (
	FormatNone Format = iota
	FormatDate
	FormatTime
	FormatCurrency
)

// ArgRule extracts one template argument from an event payload. Field is a
// dotted path into the payload object. A rule with HasFallback set renders
// Fallback when the field is absent; otherwise absence is an error.
type ArgRule struct {
	Field       string
	Format      Format
	Fallback    string
	HasFallback bool
}

func field(path string) ArgRule {
	return ArgRule{Field: path}
}

func fieldFmt(path string, f Format) ArgRule {
	return ArgRule{Field: path, Format: f}
}

func fieldOr(path, fallback string) ArgRule {
	return ArgRule{Field: path, Fallback: fallback, HasFallback: true}
}

// Mapping binds an event key to a template and the extraction rules that fill
// its argument slots, in slot order.
type Mapping struct {
	EventKey   EventKey
	TemplateID string
	Args       []ArgRule
}

var mappingTable = []Mapping{
	{
		EventKey:   EventWalletCreated,
		TemplateID: "wallet_created",
		Args: []ArgRule{
			field("residentName"),
			field("communityName"),
			field("walletId"),
		},
	},
	{
		EventKey:   EventTopupConfirmation,
		TemplateID: "topup_success",
		Args: []ArgRule{
			field("residentName"),
			fieldFmt("amount", FormatCurrency),
			fieldFmt("balance", FormatCurrency),
			fieldFmt("transactionDate", FormatDate),
		},
	},
	{
		EventKey:   EventVisitorCheckin,
		TemplateID: "visitor_checkin",
		Args: []ArgRule{
			field("visitor.name"),
			fieldOr("gate", "Main Gate"),
			fieldFmt("checkinTime", FormatTime),
		},
	},
	{
		EventKey:   EventParcelReceived,
		TemplateID: "parcel_arrived",
		Args: []ArgRule{
			field("residentName"),
			fieldOr("courier", "a courier"),
			fieldOr("location", "the guard desk"),
		},
	},
	{
		EventKey:   EventPaymentDue,
		TemplateID: "payment_reminder",
		Args: []ArgRule{
			field("residentName"),
			fieldFmt("amountDue", FormatCurrency),
			fieldFmt("dueDate", FormatDate),
		},
	},
	{
		EventKey:   EventAnnouncement,
		TemplateID: "announcement_alert",
		Args: []ArgRule{
			field("title"),
			field("summary"),
		},
	},
}

// InvalidEventKeyError rejects an event key outside the closed set. Valid
// carries the full set so the caller can self-correct.
type InvalidEventKeyError struct {
	Key   string
	Valid []string
}

func (e *InvalidEventKeyError) Error() string {
	return fmt.Sprintf("invalid event key %q, valid keys: %s", e.Key, strings.Join(e.Valid, ", "))
}

// UnknownTemplateError means an event maps to a template id the registry does
// not know. This is a configuration inconsistency, not caller input error.
type UnknownTemplateError struct {
	EventKey   EventKey
	TemplateID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("event %q maps to unknown template %q", e.EventKey, e.TemplateID)
}

// Resolved is a mapping joined with its template definition, ready for the
// argument builder.
type Resolved struct {
	Mapping  Mapping
	Template templates.Definition
}

// Resolver maps event keys to templates against a fixed registry.
type Resolver struct {
	registry *templates.Registry
	byKey    map[EventKey]Mapping
	keys     []string
}

// NewResolver indexes the static mapping table against the registry. A
// mapping whose argument rules disagree with the template's declared count is
// a configuration error and fails construction.
func NewResolver(registry *templates.Registry) (*Resolver, error) {
	r := &Resolver{
		registry: registry,
		byKey:    make(map[EventKey]Mapping, len(mappingTable)),
		keys:     make([]string, 0, len(mappingTable)),
	}

	for _, m := range mappingTable {
		def, ok := registry.Lookup(m.TemplateID)
		if !ok {
			return nil, &UnknownTemplateError{EventKey: m.EventKey, TemplateID: m.TemplateID}
		}
		if len(m.Args) != def.ArgCount {
			return nil, fmt.Errorf("event %q: %d arg rules but template %q declares %d args",
				m.EventKey, len(m.Args), m.TemplateID, def.ArgCount)
		}
		r.byKey[m.EventKey] = m
		r.keys = append(r.keys, string(m.EventKey))
	}

	return r, nil
}

// Resolve returns the mapping and template for an event key. Pure lookup, no
// I/O.
func (r *Resolver) Resolve(eventKey string) (Resolved, error) {
	m, ok := r.byKey[EventKey(eventKey)]
	if !ok {
		return Resolved{}, &InvalidEventKeyError{Key: eventKey, Valid: r.EventKeys()}
	}

	def, ok := r.registry.Lookup(m.TemplateID)
	if !ok {
		// Unreachable with a resolver built by NewResolver, kept as a
		// distinct error because it means the static tables are out of sync.
		return Resolved{}, &UnknownTemplateError{EventKey: m.EventKey, TemplateID: m.TemplateID}
	}

	return Resolved{Mapping: m, Template: def}, nil
}

// EventKeys returns the closed set of valid keys in table order.
func (r *Resolver) EventKeys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}
