package domain

// Outcome is the terminal state of a counter-order decision for one fill
// event. Evaluation runs SKIPPED checks first; surviving decisions either go
// through confirmation (CANCELLED) or placement (PLACED, PLACEMENT_FAILED).
type Outcome string

const (
	OutcomeSkipped         Outcome = "SKIPPED"
	OutcomeCancelled       Outcome = "CANCELLED"
	OutcomePlaced          Outcome = "PLACED"
	OutcomePlacementFailed Outcome = "PLACEMENT_FAILED"
)

// Decision is the result of evaluating a fill event: the counter order that
// was (or would have been) placed, and what happened to it.
type Decision struct {
	Outcome        Outcome
	Side           OrderSide // Side of the counter order
	Price          float64   // Unrounded computed price; guards compare this value
	FormattedPrice string    // Price rounded to the symbol's price precision
	Volume         float64   // Counter order quantity
	Reason         string    // Populated for OutcomeSkipped
}
