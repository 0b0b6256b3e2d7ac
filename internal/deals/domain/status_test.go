package domain

import "testing"

func TestCanHandOver(t *testing.T) {
	allowed := []string{DealStatusInquiry, DealStatusProposal, DealStatusContractSent}
	for _, s := range allowed {
		if !CanHandOver(s) {
			t.Errorf("expected handover to be allowed from %q", s)
		}
	}
	blocked := []string{DealStatusWon, DealStatusLost, "archived", ""}
	for _, s := range blocked {
		if CanHandOver(s) {
			t.Errorf("expected handover to be blocked from %q", s)
		}
	}
}

func TestDealTransitions(t *testing.T) {
	if !CanTransitionDeal(DealStatusInquiry, DealStatusProposal) {
		t.Error("inquiry should move to proposal")
	}
	if CanTransitionDeal(DealStatusInquiry, DealStatusWon) {
		t.Error("won must not be reachable by a manual transition")
	}
	if CanTransitionDeal(DealStatusWon, DealStatusLost) {
		t.Error("won deals are terminal for manual moves")
	}
	if !CanTransitionDeal(DealStatusLost, DealStatusInquiry) {
		t.Error("lost deals can be reopened")
	}
	if CanTransitionDeal("bogus", DealStatusLost) {
		t.Error("unknown status must not transition")
	}
}

func TestProposalTransitions(t *testing.T) {
	if !CanTransitionProposal(ProposalStatusDraft, ProposalStatusSent) {
		t.Error("draft should move to sent")
	}
	if CanTransitionProposal(ProposalStatusDraft, ProposalStatusAccepted) {
		t.Error("draft must not jump straight to accepted")
	}
	if !CanTransitionProposal(ProposalStatusViewed, ProposalStatusAccepted) {
		t.Error("viewed should move to accepted")
	}
	if CanTransitionProposal(ProposalStatusAccepted, ProposalStatusSent) {
		t.Error("accepted is terminal")
	}
}
