package domain

import "time"

type IssuanceStatus string

const (
	IssuanceStatusIssued   IssuanceStatus = "ISSUED"
	IssuanceStatusReturned IssuanceStatus = "RETURNED"
	IssuanceStatusDamaged  IssuanceStatus = "DAMAGED"
	IssuanceStatusOverdue  IssuanceStatus = "OVERDUE"
	IssuanceStatusLost     IssuanceStatus = "LOST"
)

// allowedTransitions is the full issuance state machine. ISSUED is the only
// initial state; RETURNED, DAMAGED and LOST are terminal.
var allowedTransitions = map[IssuanceStatus][]IssuanceStatus{
	IssuanceStatusIssued:   {IssuanceStatusReturned, IssuanceStatusDamaged, IssuanceStatusOverdue, IssuanceStatusLost},
	IssuanceStatusOverdue:  {IssuanceStatusReturned, IssuanceStatusDamaged, IssuanceStatusLost},
	IssuanceStatusReturned: {},
	IssuanceStatusDamaged:  {},
	IssuanceStatusLost:     {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to IssuanceStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsOpen reports whether the issuance still holds the tool.
func (s IssuanceStatus) IsOpen() bool {
	return s == IssuanceStatusIssued || s == IssuanceStatusOverdue
}

// IsTerminal reports whether no further transition is possible.
func (s IssuanceStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

type Issuance struct {
	ID                           int32          `json:"id"`
	IssuanceNumber               string         `json:"issuance_number"`
	ToolID                       int32          `json:"tool_id"`
	IssuedToID                   int32          `json:"issued_to_id"`
	IssuedByID                   int32          `json:"issued_by_id"`
	IssuedDate                   time.Time      `json:"issued_date"`
	ExpectedReturnDate           *time.Time     `json:"expected_return_date,omitempty"`
	ExpectedDurationDays         *int32         `json:"expected_duration_days,omitempty"`
	WorkOrderNumber              string         `json:"work_order_number,omitempty"`
	Purpose                      string         `json:"purpose"`
	Notes                        string         `json:"notes,omitempty"`
	Status                       IssuanceStatus `json:"status"`
	ActualReturnDate             *time.Time     `json:"actual_return_date,omitempty"`
	IsOverdue                    bool           `json:"is_overdue"`
	LastOverdueNotificationDate  *time.Time     `json:"last_overdue_notification_date,omitempty"`
	OverdueNotificationCount     int32          `json:"overdue_notification_count"`
	CreatedAt                    time.Time      `json:"created_at"`
}

// PastDue reports whether the loan should be flagged by the overdue scan.
func (i *Issuance) PastDue(now time.Time) bool {
	return i.Status.IsOpen() &&
		i.ActualReturnDate == nil &&
		i.ExpectedReturnDate != nil &&
		i.ExpectedReturnDate.Before(now)
}

type ReturnCondition string

const (
	ReturnConditionGood             ReturnCondition = "GOOD"
	ReturnConditionDamaged          ReturnCondition = "DAMAGED"
	ReturnConditionNeedsMaintenance ReturnCondition = "NEEDS_MAINTENANCE"
)

// Return is the terminal record of a checkin. Created once, never mutated.
type Return struct {
	ID           int32           `json:"id"`
	IssuanceID   int32           `json:"issuance_id"`
	ReturnedByID int32           `json:"returned_by_id"`
	ReturnedDate time.Time       `json:"returned_date"`
	Condition    ReturnCondition `json:"condition"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
