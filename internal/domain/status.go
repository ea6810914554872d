package domain

// Status enumerates every recognized state in both status logs. Codes are
// persisted as-is; the numeric ids of the status_definitions lookup table
// exist only for reporting joins and are mapped here, never used as
// literals at call sites.
type Status string

const (
	// Time-entry lifecycle.
	StatusEntryCreated Status = "ENTRY_CREATED"
	StatusEntryBilled  Status = "ENTRY_IN_BILLING_RUN"

	// Billing-run approval pipeline, in order.
	StatusRunSubmitted    Status = "SUBMITTED"
	StatusRunApprovedByDH Status = "APPROVED_BY_DEPARTMENT_HEAD"
	StatusRunFinalized    Status = "FINALIZED"
)

// statusDefinitionIDs is the canonical mapping to the persisted lookup
// table seeded by the migrations.
var statusDefinitionIDs = map[Status]int{
	StatusEntryCreated:    2,
	StatusEntryBilled:     11,
	StatusRunSubmitted:    20,
	StatusRunApprovedByDH: 21,
	StatusRunFinalized:    22,
}

var statusNames = map[Status]string{
	StatusEntryCreated:    "Created",
	StatusEntryBilled:     "Included in billing run",
	StatusRunSubmitted:    "Submitted",
	StatusRunApprovedByDH: "Approved by department head",
	StatusRunFinalized:    "Finalized",
}

// DefinitionID returns the lookup-table id for the status, or 0 when the
// code is unknown.
func (s Status) DefinitionID() int {
	return statusDefinitionIDs[s]
}

// DisplayName returns the human-readable status name used by reporting.
func (s Status) DisplayName() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// Valid reports whether the code is one of the recognized statuses.
func (s Status) Valid() bool {
	_, ok := statusDefinitionIDs[s]
	return ok
}
