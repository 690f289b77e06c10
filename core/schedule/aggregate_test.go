package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupBooking(id FlexID, start, finish string, classID, employeeID, clientID int) RawAppointment {
	return RawAppointment{
		ID:         id,
		StartTime:  start,
		FinishTime: finish,
		ClassID:    classID,
		EmployeeID: employeeID,
		ClientID:   clientID,
		Client:     &Contact{ID: clientID, Name: "Mentee"},
		Employee:   Contact{ID: employeeID, Name: "Mentor"},
		TypeID:     TypeGroup,
	}
}

func TestAggregateGroups(t *testing.T) {
	tests := []struct {
		name       string
		raw        []RawAppointment
		wantGroups int
		wantItems  []int
	}{
		{name: "empty input", raw: nil, wantGroups: 0},
		{
			name: "two bookings of one slot collapse",
			raw: []RawAppointment{
				groupBooking("1", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 21),
				groupBooking("2", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 22),
			},
			wantGroups: 1,
			wantItems:  []int{2},
		},
		{
			name: "distinct slots stay apart",
			raw: []RawAppointment{
				groupBooking("1", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 21),
				groupBooking("2", "2026-08-24 14:00:00", "2026-08-24 15:00:00", 7, 3, 22),
			},
			wantGroups: 2,
			wantItems:  []int{1, 1},
		},
		{
			name: "same slot different mentor stays apart",
			raw: []RawAppointment{
				groupBooking("1", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 21),
				groupBooking("2", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 4, 22),
			},
			wantGroups: 2,
			wantItems:  []int{1, 1},
		},
		{
			name: "non-group bookings are ignored",
			raw: []RawAppointment{
				{ID: "1", TypeID: TypeAppointment, StartTime: "2026-08-24 10:00:00", FinishTime: "2026-08-24 11:00:00"},
				{ID: "2", TypeID: TypeBlock, StartTime: "2026-08-24 10:00:00", FinishTime: "2026-08-24 11:00:00"},
			},
			wantGroups: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := AggregateGroups(tt.raw)
			require.Len(t, groups, tt.wantGroups)
			for i, grp := range groups {
				assert.Equal(t, tt.wantItems[i], len(grp.Items))
				assert.NotEmpty(t, grp.Items, "a group slot with zero bookings must never materialize")
				assert.Equal(t, groupSessionComments, grp.Comments)
			}
		})
	}
}

func TestAggregateGroupsSizeInvariant(t *testing.T) {
	raw := []RawAppointment{
		groupBooking("1", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 21),
		groupBooking("2", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 22),
		groupBooking("3", "2026-08-25 10:00:00", "2026-08-25 11:00:00", 7, 3, 23),
		{ID: "4", TypeID: TypeMeeting},
	}
	groups := AggregateGroups(raw)

	groupInputs := 0
	for _, appt := range raw {
		if appt.TypeID == TypeGroup {
			groupInputs++
		}
	}
	assert.LessOrEqual(t, len(groups), groupInputs)
}

func TestAggregateGroupsSeedsFromFirstBooking(t *testing.T) {
	first := groupBooking("10", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 21)
	second := groupBooking("11", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 22)

	groups := AggregateGroups([]RawAppointment{first, second})
	require.Len(t, groups, 1)

	grp := groups[0]
	assert.Equal(t, first.StartTime, grp.StartTime)
	assert.Equal(t, first.FinishTime, grp.FinishTime)
	assert.Equal(t, first.ClassID, grp.ClassID)
	assert.Equal(t, first.EmployeeID, grp.EmployeeID)
	assert.Equal(t, first.Employee, grp.Employee)
	assert.Equal(t, []RawAppointment{first, second}, grp.Items)
}

func TestGroupKeyDigitExtraction(t *testing.T) {
	appt := groupBooking("1", "2026-08-24 10:00:00", "2026-08-24 11:00:00", 7, 3, 21)
	assert.Equal(t, "202608241000002026082411000073", groupKey(appt))
}

func TestGroupKeyWithoutDigitsStaysUnique(t *testing.T) {
	// fully non-numeric identifiers must not collapse into one group
	a := RawAppointment{ID: "a", TypeID: TypeGroup, StartTime: "morning", FinishTime: "noon"}
	b := RawAppointment{ID: "b", TypeID: TypeGroup, StartTime: "noon", FinishTime: "evening"}

	keyA := groupKey(a)
	keyB := groupKey(b)
	if keyA == keyB {
		t.Fatalf("groupKey() collapsed distinct digit-less slots: %q", keyA)
	}

	groups := AggregateGroups([]RawAppointment{a, b})
	assert.Len(t, groups, 2)
}
