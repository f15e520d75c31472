package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/normalize"
)

func doctorQuery(doctorID string) url.Values {
	if doctorID == "" {
		return nil
	}
	return url.Values{"docId": {doctorID}}
}

// Profile loads GET /{docId}/profile.
func (c *Client) Profile(ctx context.Context, doctorID string) (model.DoctorProfile, error) {
	body, err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(doctorID)+"/profile", nil, nil)
	if err != nil {
		return model.DoctorProfile{}, err
	}
	profile, err := normalize.Object[model.DoctorProfile](body, "doctor")
	if err != nil {
		return model.DoctorProfile{}, fmt.Errorf("doctor profile: %w", err)
	}
	if profile.DoctorID == "" {
		profile.DoctorID = doctorID
	}
	return profile, nil
}

// SelfShifts loads GET /selfshifts.
func (c *Client) SelfShifts(ctx context.Context, doctorID string) ([]model.Shift, error) {
	return collection[model.Shift](ctx, c, "/selfshifts", doctorQuery(doctorID), "shifts")
}

// AllShifts loads GET /shifts.
func (c *Client) AllShifts(ctx context.Context, doctorID string) ([]model.Shift, error) {
	return collection[model.Shift](ctx, c, "/shifts", doctorQuery(doctorID), "shifts")
}

// Patients loads GET /patients.
func (c *Client) Patients(ctx context.Context, doctorID string) ([]model.Patient, error) {
	return collection[model.Patient](ctx, c, "/patients", doctorQuery(doctorID), "patients")
}

// RegisterRecords loads GET /register/{registerId}.
func (c *Client) RegisterRecords(ctx context.Context, registerID, doctorID string) ([]model.RegisterRecord, error) {
	return collection[model.RegisterRecord](ctx, c, "/register/"+url.PathEscape(registerID), doctorQuery(doctorID), "records")
}

func collection[T any](ctx context.Context, c *Client, path string, query url.Values, field string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	items, err := normalize.Collection[T](body, field)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return items, nil
}
