package schedule

import "context"

// FetcherMock implements Fetcher for tests; each field overrides one call.
type FetcherMock struct {
	FetchWeekFn         func(ctx context.Context, week int) ([]RawAppointment, error)
	FetchWeekForClassFn func(ctx context.Context, week, classID int) ([]RawAppointment, error)
	BlockFn             func(ctx context.Context, classID int, startTime, finishTime string) (CommandResult, error)
	UnblockFn           func(ctx context.Context, id string) (CommandResult, error)
	DaySlotsFn          func(ctx context.Context, date string, classID int) ([]Slot, error)
	GroupSlotsFn        func(ctx context.Context, classID int, date string) ([]Slot, error)

	FetchCalls int
}

var _ Fetcher = (*FetcherMock)(nil)

func (m *FetcherMock) FetchWeek(ctx context.Context, week int) ([]RawAppointment, error) {
	m.FetchCalls++
	if m.FetchWeekFn != nil {
		return m.FetchWeekFn(ctx, week)
	}
	return nil, nil
}

func (m *FetcherMock) FetchWeekForClass(ctx context.Context, week, classID int) ([]RawAppointment, error) {
	m.FetchCalls++
	if m.FetchWeekForClassFn != nil {
		return m.FetchWeekForClassFn(ctx, week, classID)
	}
	return nil, nil
}

func (m *FetcherMock) Block(ctx context.Context, classID int, startTime, finishTime string) (CommandResult, error) {
	if m.BlockFn != nil {
		return m.BlockFn(ctx, classID, startTime, finishTime)
	}
	return CommandResult{}, nil
}

func (m *FetcherMock) Unblock(ctx context.Context, id string) (CommandResult, error) {
	if m.UnblockFn != nil {
		return m.UnblockFn(ctx, id)
	}
	return CommandResult{}, nil
}

func (m *FetcherMock) DaySlots(ctx context.Context, date string, classID int) ([]Slot, error) {
	if m.DaySlotsFn != nil {
		return m.DaySlotsFn(ctx, date, classID)
	}
	return nil, nil
}

func (m *FetcherMock) GroupSlots(ctx context.Context, classID int, date string) ([]Slot, error) {
	if m.GroupSlotsFn != nil {
		return m.GroupSlotsFn(ctx, classID, date)
	}
	return nil, nil
}
