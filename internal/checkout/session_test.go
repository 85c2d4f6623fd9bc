package checkout

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newSessionAt(t *testing.T) *Session {
	t.Helper()
	return NewSession(uuid.New(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func seatAt(price float64) SelectedSeat {
	return SelectedSeat{SeatID: uuid.New(), Label: "A1", Price: price}
}

func TestStepOneGateRequiresSeats(t *testing.T) {
	s := newSessionAt(t)

	if s.CanProceed() {
		t.Error("empty selection should not satisfy the step 1 gate")
	}
	if s.GoToNextStep() {
		t.Error("GoToNextStep should be blocked with no seats")
	}
	if s.Step != StepSeatSelection {
		t.Fatalf("step = %v, want %v", s.Step, StepSeatSelection)
	}

	s.UpdateSeats([]SelectedSeat{seatAt(100)})
	if !s.CanProceed() {
		t.Error("one selected seat should satisfy the step 1 gate")
	}
	if !s.GoToNextStep() {
		t.Error("GoToNextStep should succeed after selecting a seat")
	}
	if s.Step != StepTicketDetails {
		t.Fatalf("step = %v, want %v", s.Step, StepTicketDetails)
	}
}

func TestStepThreeGateRequiresFullBuyerInfo(t *testing.T) {
	s := newSessionAt(t)
	s.UpdateSeats([]SelectedSeat{seatAt(100)})
	s.GoToStep(StepBuyerInfo)

	cases := []struct {
		name string
		info BuyerInfo
		want bool
	}{
		{"empty", BuyerInfo{}, false},
		{"missing phone", BuyerInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, false},
		{"missing email", BuyerInfo{FirstName: "Ada", LastName: "Lovelace", Phone: "+3612345678"}, false},
		{"complete", BuyerInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+3612345678"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s.UpdateBuyerInfo(tc.info)
			if got := s.CanProceed(); got != tc.want {
				t.Errorf("CanProceed() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBackwardMotionIsNeverGated(t *testing.T) {
	s := newSessionAt(t)
	s.UpdateSeats([]SelectedSeat{seatAt(100)})
	s.GoToStep(StepPaymentReview)

	// Clearing the selection invalidates earlier gates; backward motion
	// must still work.
	s.UpdateSeats(nil)
	for want := StepBuyerInfo; want >= StepSeatSelection; want-- {
		if !s.GoToPreviousStep() {
			t.Fatalf("GoToPreviousStep blocked at step %v", s.Step)
		}
		if s.Step != want {
			t.Fatalf("step = %v, want %v", s.Step, want)
		}
	}
	if s.GoToPreviousStep() {
		t.Error("GoToPreviousStep should be blocked at step 1")
	}
}

func TestGoToStepChecksBoundsOnly(t *testing.T) {
	s := newSessionAt(t)

	// Direct jumps skip gates entirely.
	if !s.GoToStep(StepPaymentReview) {
		t.Error("jump to step 4 should succeed with no seats selected")
	}
	if s.Step != StepPaymentReview {
		t.Fatalf("step = %v, want %v", s.Step, StepPaymentReview)
	}

	if s.GoToStep(0) {
		t.Error("jump to step 0 should be rejected")
	}
	if s.GoToStep(5) {
		t.Error("jump to step 5 should be rejected")
	}
	if s.Step != StepPaymentReview {
		t.Fatalf("rejected jump moved the step to %v", s.Step)
	}
}

func TestStepFourNeverAdvances(t *testing.T) {
	s := newSessionAt(t)
	s.UpdateSeats([]SelectedSeat{seatAt(100)})
	s.GoToStep(StepPaymentReview)

	if !s.CanProceed() {
		t.Error("step 4 gate is always satisfied")
	}
	if s.GoToNextStep() {
		t.Error("there is no step after payment review")
	}
	if s.Step != StepPaymentReview {
		t.Fatalf("step = %v, want %v", s.Step, StepPaymentReview)
	}
}

func TestDerivedTotals(t *testing.T) {
	s := newSessionAt(t)
	s.UpdateSeats([]SelectedSeat{seatAt(10000), seatAt(15000), seatAt(20000)})

	if got := s.TotalAmount(); got != 45000 {
		t.Errorf("TotalAmount() = %v, want 45000", got)
	}
	if got := s.TotalSeats(); got != 3 {
		t.Errorf("TotalSeats() = %v, want 3", got)
	}
	if got := s.TicketDetails.Quantity; got != 3 {
		t.Errorf("ticket quantity = %v, want 3 (derived from seats)", got)
	}

	s.Reset()
	if got := s.TotalAmount(); got != 0 {
		t.Errorf("TotalAmount() after reset = %v, want 0", got)
	}
	if got := s.TotalSeats(); got != 0 {
		t.Errorf("TotalSeats() after reset = %v, want 0", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := newSessionAt(t)
	s.UpdateSeats([]SelectedSeat{seatAt(100)})
	s.UpdateTicketDetails("VIP")
	s.UpdateBuyerInfo(BuyerInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+3612345678"})
	s.SetReservation(uuid.New(), time.Now().Add(5*time.Minute))
	s.GoToStep(StepPaymentReview)

	s.Reset()

	if s.Step != StepSeatSelection {
		t.Errorf("step = %v, want %v", s.Step, StepSeatSelection)
	}
	if len(s.Seats) != 0 {
		t.Error("seats should be cleared")
	}
	if s.TicketDetails != (TicketDetails{}) {
		t.Error("ticket details should be cleared")
	}
	if s.BuyerInfo != (BuyerInfo{}) {
		t.Error("buyer info should be cleared")
	}
	if s.HasReservation() {
		t.Error("reservation should be detached")
	}
}

func TestTimeRemainingClampsAtZero(t *testing.T) {
	s := newSessionAt(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetReservation(uuid.New(), now.Add(5*time.Minute))

	if got := s.TimeRemaining(now); got != 300 {
		t.Errorf("TimeRemaining = %d, want 300", got)
	}
	if got := s.TimeRemaining(now.Add(299 * time.Second)); got != 1 {
		t.Errorf("TimeRemaining near expiry = %d, want 1", got)
	}
	if got := s.TimeRemaining(now.Add(301 * time.Second)); got != 0 {
		t.Errorf("TimeRemaining past expiry = %d, want 0", got)
	}

	s.ClearReservation()
	if got := s.TimeRemaining(now); got != 0 {
		t.Errorf("TimeRemaining with no hold = %d, want 0", got)
	}
}
