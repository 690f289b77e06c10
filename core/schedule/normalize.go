package schedule

import "time"

var nowFunc = time.Now // mockable

// Normalize converts raw and grouped bookings into calendar events: one Group
// event per aggregate (members stay reachable through Event.Group), then one
// event per non-group booking in fetch order. Unparsable timestamps degrade
// to the call's current instant; the function never fails.
//
// Output length is always len(groups) + count(raw where type != group).
func Normalize(raw []RawAppointment, groups []GroupAppointment, loc *time.Location) []Event {
	now := nowFunc().In(loc)
	events := make([]Event, 0, len(groups)+len(raw))

	for _, grp := range groups {
		events = append(events, Event{
			ID:         grp.Items[0].ID,
			Type:       TypeGroup,
			Start:      parseNaive(grp.StartTime, loc, now),
			End:        parseNaive(grp.FinishTime, loc, now),
			Title:      TypeGroup.Label(),
			ClientName: TypeGroup.Label(),
			Employee:   grp.Employee,
			ClassID:    grp.ClassID,
			Group:      grp.Items,
		})
	}

	for _, appt := range raw {
		if appt.TypeID == TypeGroup {
			continue
		}
		ev := Event{
			ID:         appt.ID,
			Type:       appt.TypeID,
			Start:      parseNaive(appt.StartTime, loc, now),
			End:        parseNaive(appt.FinishTime, loc, now),
			Title:      appt.TypeID.Label(),
			ClientName: appt.TypeID.Label(),
			Client:     appt.Client,
			Employee:   appt.Employee,
			ClassID:    appt.ClassID,
		}
		// only individual mentorship sessions expose the mentee's identity
		// and the booking Q&A; all other types show the generic type label.
		if appt.TypeID == TypeAppointment {
			if appt.Client != nil {
				ev.ClientName = appt.Client.Name
			}
			ev.AdditionalFields = parseAdditionalFields(appt.AdditionalFields)
		}
		events = append(events, ev)
	}
	return events
}
