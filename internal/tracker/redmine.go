package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/config"
	"github.com/spec-kit/devops-automation/internal/domain"
)

// Custom field names carrying triage context on tracker issues.
const (
	environmentField = "Deployment Environment Tags"
	projectTagField  = "Project Jira ID"
)

// RedmineClient is the live TicketStore backed by the Redmine REST API.
type RedmineClient struct {
	baseURL     string
	apiKey      string
	projectID   int
	teamGroupID int
	fetchLimit  int
	memberIDs   []int
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewRedmineClient builds the live tracker client. memberIDs is the roster
// whose workloads the snapshot provider needs.
func NewRedmineClient(cfg config.RedmineConfig, memberIDs []int, logger *zap.Logger) *RedmineClient {
	return &RedmineClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		projectID:   cfg.ProjectID,
		teamGroupID: cfg.TeamGroupID,
		fetchLimit:  cfg.FetchLimit,
		memberIDs:   memberIDs,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		logger:      logger,
	}
}

type redmineRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type redmineCustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type redmineIssue struct {
	ID           int                  `json:"id"`
	Subject      string               `json:"subject"`
	Description  string               `json:"description"`
	Priority     redmineRef           `json:"priority"`
	Status       redmineRef           `json:"status"`
	CustomFields []redmineCustomField `json:"custom_fields"`
}

type issuesResponse struct {
	Issues     []redmineIssue `json:"issues"`
	TotalCount int            `json:"total_count"`
}

type issueUpdateRequest struct {
	Issue issueUpdateBody `json:"issue"`
}

type issueUpdateBody struct {
	PriorityID   int    `json:"priority_id,omitempty"`
	AssignedToID int    `json:"assigned_to_id"`
	StatusID     int    `json:"status_id"`
	Notes        string `json:"notes"`
}

// FetchNewTickets queries new issues assigned to the team group.
func (c *RedmineClient) FetchNewTickets(ctx context.Context) ([]domain.Ticket, error) {
	params := url.Values{}
	params.Set("project_id", strconv.Itoa(c.projectID))
	params.Set("status_id", strconv.Itoa(StatusIDNew))
	params.Set("assigned_to_id", strconv.Itoa(c.teamGroupID))
	params.Set("limit", strconv.Itoa(c.fetchLimit))

	var payload issuesResponse
	if err := c.get(ctx, "/issues.json", params, &payload); err != nil {
		return nil, fmt.Errorf("fetch new tickets: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		ticket := issueToTicket(issue)
		if !ticket.Priority.Valid() {
			c.logger.Warn("ticket carries unknown priority label",
				zap.Int("ticket_id", ticket.ID),
				zap.String("priority", string(ticket.Priority)),
			)
		}
		tickets = append(tickets, ticket)
	}
	c.logger.Info("fetched new tickets", zap.Int("count", len(tickets)))
	return tickets, nil
}

// InProgressCounts queries the in-progress ticket count for every roster
// member. A single unreachable query fails the whole snapshot; the caller
// treats that as batch-fatal.
func (c *RedmineClient) InProgressCounts(ctx context.Context) (map[int]int, error) {
	counts := make(map[int]int, len(c.memberIDs))
	for _, memberID := range c.memberIDs {
		params := url.Values{}
		params.Set("assigned_to_id", strconv.Itoa(memberID))
		params.Set("status_id", strconv.Itoa(StatusIDInProgress))
		params.Set("limit", "1")

		var payload issuesResponse
		if err := c.get(ctx, "/issues.json", params, &payload); err != nil {
			return nil, fmt.Errorf("workload for member %d: %w", memberID, err)
		}
		counts[memberID] = payload.TotalCount
	}
	return counts, nil
}

// UpdateTicket writes priority, assignee, status and note in one request.
func (c *RedmineClient) UpdateTicket(ctx context.Context, update TicketUpdate) error {
	body, err := json.Marshal(issueUpdateRequest{Issue: issueUpdateBody{
		PriorityID:   update.PriorityID,
		AssignedToID: update.AssigneeID,
		StatusID:     update.StatusID,
		Notes:        update.Notes,
	}})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/issues/%d.json", c.baseURL, update.TicketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update ticket %d: %w", update.TicketID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("update ticket %d: HTTP %d", update.TicketID, resp.StatusCode)
	}
	return nil
}

// TicketURL returns the tracker page for a ticket.
func (c *RedmineClient) TicketURL(ticketID int) string {
	return fmt.Sprintf("%s/issues/%d", c.baseURL, ticketID)
}

// Ping probes the tracker with the current-user endpoint.
func (c *RedmineClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/current.json", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("redmine probe: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *RedmineClient) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *RedmineClient) setHeaders(req *http.Request) {
	req.Header.Set("X-Redmine-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func issueToTicket(issue redmineIssue) domain.Ticket {
	ticket := domain.Ticket{
		ID:          issue.ID,
		Subject:     issue.Subject,
		Description: issue.Description,
		Priority:    domain.Priority(issue.Priority.Name),
		Status:      domain.TicketStatus(issue.Status.Name),
	}
	for _, field := range issue.CustomFields {
		switch field.Name {
		case environmentField:
			ticket.Environment = strings.TrimSpace(field.Value)
		case projectTagField:
			ticket.ProjectTag = field.Value
		}
	}
	return ticket
}
