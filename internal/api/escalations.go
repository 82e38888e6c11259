package api

import (
	"context"
	"fmt"
	"net/http"

	"resolveit/internal/complaint"
)

type escalateRequest struct {
	ComplaintID   int64  `json:"complaintId"`
	EscalatedToID int64  `json:"escalatedToId"`
	Reason        string `json:"reason"`
}

// Escalate raises a complaint to a higher authority. The target must
// outrank the caller; policy.CanEscalate mirrors the server rule.
func (c *Client) Escalate(ctx context.Context, complaintID, escalatedToID int64, reason string) error {
	body := escalateRequest{
		ComplaintID:   complaintID,
		EscalatedToID: escalatedToID,
		Reason:        reason,
	}
	return c.do(ctx, http.MethodPost, "/api/escalations/escalate", body, nil)
}

type authoritiesResponse struct {
	Success     bool             `json:"success"`
	Authorities []complaint.User `json:"authorities"`
}

type escalationsResponse struct {
	Success     bool                   `json:"success"`
	Escalations []complaint.Escalation `json:"escalations"`
}

type historyResponse struct {
	Success bool                   `json:"success"`
	History []complaint.Escalation `json:"history"`
}

// Authorities fetches the users the caller may escalate to.
func (c *Client) Authorities(ctx context.Context) ([]complaint.User, error) {
	var resp authoritiesResponse
	if err := c.get(ctx, "/api/escalations/authorities", &resp); err != nil {
		return nil, err
	}
	return resp.Authorities, nil
}

// MyEscalations fetches escalations currently addressed to the caller.
func (c *Client) MyEscalations(ctx context.Context) ([]complaint.Escalation, error) {
	var resp escalationsResponse
	if err := c.get(ctx, "/api/escalations/my-escalations", &resp); err != nil {
		return nil, err
	}
	return resp.Escalations, nil
}

// EscalationHistory fetches every escalation of a complaint, newest first.
func (c *Client) EscalationHistory(ctx context.Context, complaintID int64) ([]complaint.Escalation, error) {
	var resp historyResponse
	if err := c.get(ctx, fmt.Sprintf("/api/escalations/complaint/%d/history", complaintID), &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// ResolveEscalation marks an escalation handled with resolution notes.
func (c *Client) ResolveEscalation(ctx context.Context, escalationID int64, notes string) error {
	body := map[string]string{"notes": notes}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/escalations/%d/resolve", escalationID), body, nil)
}

type sweepResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AutoEscalate triggers the backend sweep that escalates complaints left
// unresolved past the age threshold. Admin only. Returns the number of
// complaints escalated.
func (c *Client) AutoEscalate(ctx context.Context) (int, error) {
	var resp sweepResponse
	if err := c.do(ctx, http.MethodPost, "/api/escalations/auto-escalate", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// SendReminders triggers reminder notifications for stale assignments.
// Admin only. Returns the number of reminders sent.
func (c *Client) SendReminders(ctx context.Context) (int, error) {
	var resp sweepResponse
	if err := c.do(ctx, http.MethodPost, "/api/escalations/send-reminders", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
