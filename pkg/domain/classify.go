package domain

// Classification predicates shared by every derived view. Table filters,
// dashboard counters, and kanban badges all call these so the counts cannot
// drift apart.

// Active reports whether the application is still in play.
func (p Phase) Active() bool {
	return p != PhaseRejected && p != PhaseWithdrawn
}

// Interviewing reports whether the application sits in an interview stage.
func (p Phase) Interviewing() bool {
	return p == PhaseInterview || p == PhaseFinalRound
}

// Offered reports whether the application reached an offer.
func (p Phase) Offered() bool {
	return p == PhaseOffer
}

// Rejected reports whether the application was rejected by the company.
// Withdrawn applications are inactive but deliberately not counted here.
func (p Phase) Rejected() bool {
	return p == PhaseRejected
}

// Open reports whether a task still needs attention.
func (s TaskStatus) Open() bool {
	return s != StatusDone
}
