package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/mentorhub/agenda/core"
	"github.com/mentorhub/agenda/core/schedule"
)

// Client is the HTTP implementation of the schedule.Fetcher boundary.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  core.Logger
}

var _ schedule.Fetcher = (*Client)(nil)

func NewClient(logger core.Logger) *Client {
	return &Client{
		baseURL: core.Conf.Schedule.BaseURL,
		token:   core.Conf.Schedule.Token,
		http:    &http.Client{Timeout: core.Conf.Schedule.Timeout},
		logger:  logger,
	}
}

type (
	calendarEnvelope struct {
		Data []schedule.RawAppointment `json:"data"`
	}

	slotsEnvelope struct {
		Data []schedule.Slot `json:"data"`
	}

	blockPayload struct {
		StartTime  string `json:"start_time"`
		FinishTime string `json:"finish_time"`
		ClassID    int    `json:"class_id"`
	}

	groupSlotsPayload struct {
		ClassID int    `json:"class_id"`
		Date    string `json:"date"`
	}
)

func (c *Client) FetchWeek(ctx context.Context, week int) ([]schedule.RawAppointment, error) {
	var env calendarEnvelope
	if err := c.get(ctx, fmt.Sprintf("/schedule/calendar/%d", week), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) FetchWeekForClass(ctx context.Context, week, classID int) ([]schedule.RawAppointment, error) {
	var env calendarEnvelope
	if err := c.get(ctx, fmt.Sprintf("/schedule/calendar/%d/class/%d", week, classID), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Block(ctx context.Context, classID int, startTime, finishTime string) (schedule.CommandResult, error) {
	var res schedule.CommandResult
	payload := blockPayload{StartTime: startTime, FinishTime: finishTime, ClassID: classID}
	err := c.post(ctx, fmt.Sprintf("/schedule/block/%d", classID), payload, &res)
	return res, err
}

func (c *Client) Unblock(ctx context.Context, id string) (schedule.CommandResult, error) {
	var res schedule.CommandResult
	err := c.post(ctx, "/schedule/unblock/"+url.PathEscape(id), nil, &res)
	return res, err
}

func (c *Client) DaySlots(ctx context.Context, date string, classID int) ([]schedule.Slot, error) {
	var env slotsEnvelope
	path := fmt.Sprintf("/schedule/slot/%s/class/%d", url.PathEscape(date), classID)
	if err := c.get(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) GroupSlots(ctx context.Context, classID int, date string) ([]schedule.Slot, error) {
	var env slotsEnvelope
	if err := c.post(ctx, "/schedule/slot", groupSlotsPayload{ClassID: classID, Date: date}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encoding payload")
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		data, _ := ioutil.ReadAll(io.LimitReader(res.Body, 512))
		c.logger.Warn(fmt.Sprintf("schedule backend %s %s - status: %d - body: %s", method, path, res.StatusCode, data))
		return errors.Errorf("%s %s: unexpected status %d", method, path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}
