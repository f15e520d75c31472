package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/normalize"
)

// SubmitAddNumberResult posts a decision to /add_number_result.
func (c *Client) SubmitAddNumberResult(ctx context.Context, d model.AddNumberDecision) (model.AddNumberDecisionResult, error) {
	var out model.AddNumberDecisionResult
	err := c.command(ctx, "/add_number_result", d, &out)
	return out, err
}

// SubmitScheduleChange posts a swap or leave request to /schedule_change_request.
func (c *Client) SubmitScheduleChange(ctx context.Context, r model.ScheduleChangeRequest) (model.ScheduleChangeResult, error) {
	var out model.ScheduleChangeResult
	err := c.command(ctx, "/schedule_change_request", r, &out)
	return out, err
}

// UpdatePatientStatus posts to /patient/status.
func (c *Client) UpdatePatientStatus(ctx context.Context, u model.PatientStatusUpdate) error {
	return c.command(ctx, "/patient/status", u, nil)
}

// command posts payload and decodes the envelope's data into out when present.
func (c *Client) command(ctx context.Context, path string, payload, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}

	var env normalize.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s: %w: %v", path, normalize.ErrMalformedResponse, err)
	}
	if env.Code != normalize.SuccessCode {
		return fmt.Errorf("%w: %s: code %d: %s", ErrRejected, path, env.Code, env.Msg)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", path, normalize.ErrMalformedResponse, err)
	}
	return nil
}
