package client

import (
	"context"
	"net/http"
	"net/url"

	"Mansoor88-6/nagster-console/internal/models"
)

// Login posts credentials. A 2xx body without a token is returned as-is so
// the caller can surface its detail.
func (c *APIClient) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.Do(ctx, "/auth/login", &resp,
		WithMethod(http.MethodPost),
		WithBody(models.Credentials{Username: username, Password: password}),
		WithoutAuth(),
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup creates an account. The backend may or may not sign the user in.
func (c *APIClient) Signup(ctx context.Context, username, password, role string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.Do(ctx, "/auth/signup", &resp,
		WithMethod(http.MethodPost),
		WithBody(models.Credentials{Username: username, Password: password, Role: role}),
		WithoutAuth(),
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me validates token and returns its profile. The token travels as the
// "token" query parameter, which is what the backend reads.
func (c *APIClient) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.Do(ctx, "/auth/me", &profile, WithQuery("token", token), WithoutAuth()); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *APIClient) Overview(ctx context.Context, date string) ([]models.Employee, error) {
	var rows []models.Employee
	if err := c.Do(ctx, "/overview", &rows, dateQuery(date)...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *APIClient) Summary(ctx context.Context, employeeID, date string) (*models.EmployeeSummary, error) {
	var s models.EmployeeSummary
	if err := c.Do(ctx, "/summary/"+url.PathEscape(employeeID), &s, dateQuery(date)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *APIClient) Activity(ctx context.Context, employeeID, date string) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	if err := c.Do(ctx, "/activity/"+url.PathEscape(employeeID), &entries, dateQuery(date)...); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListEmployees returns the directory, optionally filtered by status.
func (c *APIClient) ListEmployees(ctx context.Context, status string) ([]models.EmployeeRecord, error) {
	var opts []Option
	if status != "" {
		opts = append(opts, WithQuery("status", status))
	}
	var rows []models.EmployeeRecord
	if err := c.Do(ctx, "/employees", &rows, opts...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *APIClient) CreateEmployee(ctx context.Context, e models.NewEmployee) (*models.Ack, error) {
	var ack models.Ack
	if err := c.Do(ctx, "/employees", &ack, WithMethod(http.MethodPost), WithBody(e)); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *APIClient) DeleteEmployee(ctx context.Context, employeeID string) (*models.Ack, error) {
	var ack models.Ack
	if err := c.Do(ctx, "/employees/"+url.PathEscape(employeeID), &ack, WithMethod(http.MethodDelete)); err != nil {
		return nil, err
	}
	return &ack, nil
}

func dateQuery(date string) []Option {
	if date == "" {
		return nil
	}
	return []Option{WithQuery("date_str", date)}
}
