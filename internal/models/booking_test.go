package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		role Role
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"owner cancels pending", RoleOwner, BookingPending, BookingCancelled, true},
		{"owner cancels confirmed", RoleOwner, BookingConfirmed, BookingCancelled, true},
		{"owner cannot cancel completed", RoleOwner, BookingCompleted, BookingCancelled, false},
		{"owner cannot cancel rejected", RoleOwner, BookingRejected, BookingCancelled, false},
		{"owner cannot cancel cancelled", RoleOwner, BookingCancelled, BookingCancelled, false},
		{"owner cannot confirm", RoleOwner, BookingPending, BookingConfirmed, false},
		{"owner cannot reject", RoleOwner, BookingPending, BookingRejected, false},
		{"owner cannot complete", RoleOwner, BookingConfirmed, BookingCompleted, false},

		{"sitter confirms pending", RoleSitter, BookingPending, BookingConfirmed, true},
		{"sitter rejects pending", RoleSitter, BookingPending, BookingRejected, true},
		{"sitter completes confirmed", RoleSitter, BookingConfirmed, BookingCompleted, true},
		{"sitter cannot cancel", RoleSitter, BookingPending, BookingCancelled, false},
		{"sitter cannot complete pending", RoleSitter, BookingPending, BookingCompleted, false},
		{"sitter cannot reject confirmed", RoleSitter, BookingConfirmed, BookingRejected, false},
		{"sitter cannot re-confirm", RoleSitter, BookingConfirmed, BookingConfirmed, false},
		{"completed is terminal for sitter", RoleSitter, BookingCompleted, BookingConfirmed, false},
		{"rejected is terminal", RoleSitter, BookingRejected, BookingConfirmed, false},
		{"cancelled is terminal", RoleSitter, BookingCancelled, BookingCompleted, false},

		{"unknown role never transitions", Role("admin"), BookingPending, BookingConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.role, tc.from, tc.to); got != tc.want {
				t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tc.role, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestValidateDates(t *testing.T) {
	cases := []struct {
		name     string
		booking  Booking
		wantErr  bool
		rangeErr bool
	}{
		{
			name:    "single day without times",
			booking: Booking{StartDate: "2026-09-01", EndDate: "2026-09-01"},
		},
		{
			name:    "multi day range",
			booking: Booking{StartDate: "2026-09-01", EndDate: "2026-09-03"},
		},
		{
			name:    "valid times",
			booking: Booking{StartDate: "2026-09-01", EndDate: "2026-09-01", StartTime: "09:00", EndTime: "17:30"},
		},
		{
			name:     "end before start",
			booking:  Booking{StartDate: "2026-09-03", EndDate: "2026-09-01"},
			wantErr:  true,
			rangeErr: true,
		},
		{
			name:    "malformed start date",
			booking: Booking{StartDate: "09/01/2026", EndDate: "2026-09-01"},
			wantErr: true,
		},
		{
			name:    "malformed end date",
			booking: Booking{StartDate: "2026-09-01", EndDate: "not-a-date"},
			wantErr: true,
		},
		{
			name:    "malformed start time",
			booking: Booking{StartDate: "2026-09-01", EndDate: "2026-09-01", StartTime: "9am"},
			wantErr: true,
		},
		{
			name:    "malformed end time",
			booking: Booking{StartDate: "2026-09-01", EndDate: "2026-09-01", EndTime: "25:00"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.booking.ValidateDates()
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateDates() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.rangeErr && !IsDateRangeError(err) {
				t.Errorf("expected a date range error, got %v", err)
			}
			if err != nil && !tc.rangeErr && IsDateRangeError(err) {
				t.Errorf("malformed input should not be a date range error: %v", err)
			}
		})
	}
}

func TestValidServiceType(t *testing.T) {
	for _, s := range []ServiceType{ServiceDogWalking, ServicePetSitting, ServiceBoarding, ServiceGrooming, ServiceTraining} {
		if !ValidServiceType(s) {
			t.Errorf("ValidServiceType(%s) = false", s)
		}
	}
	if ValidServiceType("cat_juggling") {
		t.Error("ValidServiceType accepted an unknown service type")
	}
}

func TestBookingDetailsUpdateIsEmpty(t *testing.T) {
	var upd BookingDetailsUpdate
	if !upd.IsEmpty() {
		t.Error("zero value update should be empty")
	}

	notes := "bring treats"
	upd.Notes = &notes
	if upd.IsEmpty() {
		t.Error("update with notes should not be empty")
	}

	upd = BookingDetailsUpdate{PetIDs: []string{"p1"}}
	if upd.IsEmpty() {
		t.Error("update with pet ids should not be empty")
	}
}
