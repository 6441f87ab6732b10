package domain

import "testing"

func TestPhaseClassification(t *testing.T) {
	active := 0
	for _, phase := range Phases() {
		if phase.Active() {
			active++
		}
	}
	if active != 5 {
		t.Fatalf("expected 5 active phases, got %d", active)
	}
	if PhaseRejected.Active() || PhaseWithdrawn.Active() {
		t.Fatalf("terminal phases must not be active")
	}
	if !PhaseInterview.Interviewing() || !PhaseFinalRound.Interviewing() {
		t.Fatalf("interview and final_round classify as interviewing")
	}
	if PhasePhoneScreen.Interviewing() {
		t.Fatalf("phone_screen is not interviewing")
	}
	if !PhaseOffer.Offered() || PhaseApplied.Offered() {
		t.Fatalf("offered predicate mismatch")
	}
	if !PhaseRejected.Rejected() || PhaseWithdrawn.Rejected() {
		t.Fatalf("rejected counts rejected only, not withdrawn")
	}
}

func TestTaskStatusOpen(t *testing.T) {
	if !StatusTodo.Open() || !StatusInProgress.Open() {
		t.Fatalf("todo and in_progress are open")
	}
	if StatusDone.Open() {
		t.Fatalf("done is not open")
	}
}

func TestEnumValidity(t *testing.T) {
	for _, phase := range Phases() {
		if !phase.Valid() {
			t.Fatalf("phase %s should be valid", phase)
		}
	}
	if Phase("ghosted").Valid() {
		t.Fatalf("unknown phase accepted")
	}
	for _, status := range TaskStatuses() {
		if !status.Valid() {
			t.Fatalf("status %s should be valid", status)
		}
	}
	if TaskStatus("blocked").Valid() {
		t.Fatalf("unknown status accepted")
	}
	if !PriorityHigh.Valid() || Priority("urgent").Valid() {
		t.Fatalf("priority validity mismatch")
	}
}

func TestPhaseRankFollowsPipelineOrder(t *testing.T) {
	phases := Phases()
	for i := 1; i < len(phases); i++ {
		if phases[i-1].Rank() >= phases[i].Rank() {
			t.Fatalf("rank not increasing at %s", phases[i])
		}
	}
}
