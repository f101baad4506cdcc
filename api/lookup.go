package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type CreateProjectRequest struct {
	Name           string    `json:"projectName"`
	Color          string    `json:"color"`
	TechStack      []string  `json:"techStack"`
	TeamID         string    `json:"teamId,omitempty"`
	ClientID       string    `json:"clientId,omitempty"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Budget         float64   `json:"budget,omitempty"`
	EstimatedHours float64   `json:"estimatedHours,omitempty"`
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/project", nil, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Projects []Project `json:"projects"`
	}
	if err := c.doJSON(req, &body); err != nil {
		return nil, err
	}
	return body.Projects, nil
}

func (c *Client) CreateProject(ctx context.Context, payload CreateProjectRequest) (Project, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/booking/createproject", nil, payload)
	if err != nil {
		return Project{}, err
	}
	var created Project
	if err := c.doJSON(req, &created); err != nil {
		return Project{}, err
	}
	return created, nil
}

func (c *Client) ListTypesOfWork(ctx context.Context) ([]TypeOfWork, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/type-of-work", nil, nil)
	if err != nil {
		return nil, err
	}
	var types []TypeOfWork
	if err := c.doJSON(req, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) GetCompany(ctx context.Context, companyID string) (Company, error) {
	path := "/api/company/" + url.PathEscape(companyID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return Company{}, err
	}
	var company Company
	if err := c.doJSON(req, &company); err != nil {
		return Company{}, err
	}
	return company, nil
}

func (c *Client) ListUsers(ctx context.Context, companyID string) ([]User, error) {
	path := "/api/user/" + url.PathEscape(companyID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := c.doJSON(req, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListTeams(ctx context.Context, companyID string) ([]Team, error) {
	path := "/api/team/" + url.PathEscape(companyID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var teams []Team
	if err := c.doJSON(req, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}
