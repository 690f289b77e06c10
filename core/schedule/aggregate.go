package schedule

import (
	"regexp"
	"strings"
)

var digitRuns = regexp.MustCompile(`\d+`)

// AggregateGroups collapses the raw bookings of each group slot (type 4) into
// a single GroupAppointment. The first booking under a key seeds the
// aggregate; every booking, the first included, lands in Items. Output order
// is the insertion order of first occurrence, not chronological — callers
// that need chronological order must sort.
func AggregateGroups(raw []RawAppointment) []GroupAppointment {
	var groups []GroupAppointment
	index := make(map[string]int)

	for _, appt := range raw {
		if appt.TypeID != TypeGroup {
			continue
		}
		key := groupKey(appt)
		if i, ok := index[key]; ok {
			groups[i].Items = append(groups[i].Items, appt)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, GroupAppointment{
			Key:        key,
			StartTime:  appt.StartTime,
			FinishTime: appt.FinishTime,
			ClassID:    appt.ClassID,
			EmployeeID: appt.EmployeeID,
			Employee:   appt.Employee,
			Comments:   groupSessionComments,
			Items:      []RawAppointment{appt},
		})
	}
	return groups
}

// groupKey derives the grouping key from the digit runs of
// start+finish+class+employee. Bookings of the same slot share the key; when
// the composite carries no digits at all the booking's own id is used so that
// distinct slots can never collapse into one group.
func groupKey(appt RawAppointment) string {
	composite := appt.StartTime + appt.FinishTime
	if appt.ClassID != 0 {
		composite += itoa(appt.ClassID)
	}
	if appt.EmployeeID != 0 {
		composite += itoa(appt.EmployeeID)
	}
	runs := digitRuns.FindAllString(composite, -1)
	if len(runs) == 0 {
		return "id:" + string(appt.ID)
	}
	return strings.Join(runs, "")
}
