package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const schedulesPath = "/api/v1/schedules"

// ScheduleClient calls the schedules service over HTTP.
type ScheduleClient struct {
	httpClient *HttpClient
}

func NewScheduleClient(baseUrl string) *ScheduleClient {
	return &ScheduleClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ScheduleClient) Create(body any) (*Response, error) {
	return c.httpClient.POST(schedulesPath, body)
}

// CreateOnce sends key as the idempotency key so a retried create is
// answered from the first response.
func (c *ScheduleClient) CreateOnce(body any, key string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(schedulesPath, body, map[string]string{IdempotencyKeyHeader: key})
}

func (c *ScheduleClient) WaitForReady(ctx context.Context) error {
	return c.httpClient.WaitForReady(ctx, 250*time.Millisecond)
}

func (c *ScheduleClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/id/" + id)
}

func (c *ScheduleClient) GetDetail(id string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/id/" + id + "/details")
}

func (c *ScheduleClient) GetByNumber(scheduleNo string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/number/" + scheduleNo)
}

func (c *ScheduleClient) GetByAgent(agentID string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/agent/" + agentID)
}

func (c *ScheduleClient) GetByClient(clientID string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/client/" + clientID)
}

func (c *ScheduleClient) GetByProperty(propertyID string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/property/" + propertyID)
}

func (c *ScheduleClient) GetByStatus(status string) (*Response, error) {
	return c.httpClient.GET(schedulesPath + "/status/" + url.PathEscape(status))
}

func (c *ScheduleClient) GetByDateRange(start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339Nano))
	q.Set("end", end.UTC().Format(time.RFC3339Nano))
	return c.httpClient.GET(schedulesPath + "/range?" + q.Encode())
}

func (c *ScheduleClient) Availability(agentID string, at time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("agent_id", agentID)
	q.Set("time", at.UTC().Format(time.RFC3339Nano))
	return c.httpClient.GET(schedulesPath + "/availability?" + q.Encode())
}

func (c *ScheduleClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PATCH(schedulesPath+"/id/"+id, body)
}

func (c *ScheduleClient) Cancel(id string) (*Response, error) {
	return c.httpClient.PUT(fmt.Sprintf("%s/id/%s/cancel", schedulesPath, id), nil)
}

func (c *ScheduleClient) Complete(id string) (*Response, error) {
	return c.httpClient.PUT(fmt.Sprintf("%s/id/%s/complete", schedulesPath, id), nil)
}

func (c *ScheduleClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE(schedulesPath + "/id/" + id)
}
