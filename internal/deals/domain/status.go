// Package domain provides core business rules for the deals bounded context.
package domain

// Deal pipeline statuses.
const (
	DealStatusInquiry      = "inquiry"
	DealStatusProposal     = "proposal"
	DealStatusContractSent = "contract_sent"
	DealStatusWon          = "won"
	DealStatusLost         = "lost"
)

// Proposal statuses.
const (
	ProposalStatusDraft    = "draft"
	ProposalStatusSent     = "sent"
	ProposalStatusViewed   = "viewed"
	ProposalStatusAccepted = "accepted"
)

// dealTransitions are the allowed manual status moves. Winning a deal is not
// here: the only path to won is the handover operation.
var dealTransitions = map[string]map[string]bool{
	DealStatusInquiry:      {DealStatusProposal: true, DealStatusContractSent: true, DealStatusLost: true},
	DealStatusProposal:     {DealStatusContractSent: true, DealStatusLost: true, DealStatusInquiry: true},
	DealStatusContractSent: {DealStatusProposal: true, DealStatusLost: true},
	DealStatusWon:          {},
	DealStatusLost:         {DealStatusInquiry: true},
}

var proposalTransitions = map[string]map[string]bool{
	ProposalStatusDraft:    {ProposalStatusSent: true},
	ProposalStatusSent:     {ProposalStatusViewed: true, ProposalStatusAccepted: true},
	ProposalStatusViewed:   {ProposalStatusAccepted: true},
	ProposalStatusAccepted: {},
}

// CanTransitionDeal reports whether a manual deal status move is allowed.
func CanTransitionDeal(current, to string) bool {
	nexts, ok := dealTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

// CanTransitionProposal reports whether a proposal status move is allowed.
func CanTransitionProposal(current, to string) bool {
	nexts, ok := proposalTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

// CanHandOver reports whether a deal in the given status may be converted
// into a production. Won deals are already handed over; lost deals stay lost.
func CanHandOver(status string) bool {
	switch status {
	case DealStatusInquiry, DealStatusProposal, DealStatusContractSent:
		return true
	default:
		return false
	}
}
