// Package upstream talks to the GraphQL API that records member check-ins.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"presence_report_bot/internal/domain/attendance"
	"presence_report_bot/internal/domain/member"
)

const membersQuery = `
query MemberQuery {
    getMember {
        id
        name
    }
}`

const attendanceQueryTemplate = `
query AttendanceQuery {
    getAttendance(date: "%s") {
        id
        timein
        timeout
    }
}`

// Client posts GraphQL queries to a single endpoint. Safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// attendanceRow is one row of getAttendance; null times decode as nil.
type attendanceRow struct {
	ID      int64   `json:"id"`
	TimeIn  *string `json:"timein"`
	TimeOut *string `json:"timeout"`
}

// FetchMembers returns the member directory.
func (c *Client) FetchMembers(ctx context.Context) ([]member.Member, error) {
	var data struct {
		GetMember []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"getMember"`
	}
	if err := c.query(ctx, membersQuery, &data); err != nil {
		return nil, err
	}

	members := make([]member.Member, 0, len(data.GetMember))
	for _, m := range data.GetMember {
		members = append(members, member.Member{ID: m.ID, Name: m.Name})
	}
	return members, nil
}

func (c *Client) fetchAttendanceRows(ctx context.Context, date time.Time) ([]attendanceRow, error) {
	var data struct {
		GetAttendance []attendanceRow `json:"getAttendance"`
	}
	query := fmt.Sprintf(attendanceQueryTemplate, date.Format("2006-01-02"))
	if err := c.query(ctx, query, &data); err != nil {
		return nil, err
	}
	return data.GetAttendance, nil
}

// query runs one request bounded by the client timeout and decodes its data into out.
// Every failure wraps attendance.ErrFetchFailed.
func (c *Client) query(ctx context.Context, query string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("%w: encoding query: %v", attendance.ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", attendance.ErrFetchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", attendance.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", attendance.ErrFetchFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", attendance.ErrFetchFailed, resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: decoding response: %v", attendance.ErrFetchFailed, err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("%w: graphql: %s", attendance.ErrFetchFailed, strings.Join(messages, "; "))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: response has no data", attendance.ErrFetchFailed)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decoding data: %v", attendance.ErrFetchFailed, err)
	}
	return nil
}
