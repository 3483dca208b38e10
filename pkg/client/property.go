package client

import (
	"fmt"
	"net/url"
)

const propertiesPath = "/api/v1/properties"

type PropertyClient struct {
	httpClient *HttpClient
}

func NewPropertyClient(baseUrl string) *PropertyClient {
	return &PropertyClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *PropertyClient) Create(body any) (*Response, error) {
	return c.httpClient.POST(propertiesPath, body)
}

func (c *PropertyClient) GetAll(limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(fmt.Sprintf("%s?limit=%d&offset=%d", propertiesPath, limit, offset))
}

func (c *PropertyClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/id/" + id)
}

func (c *PropertyClient) Search(query string) (*Response, error) {
	q := url.Values{}
	q.Set("q", query)
	return c.httpClient.GET(propertiesPath + "/search?" + q.Encode())
}

func (c *PropertyClient) GetByOwner(ownerID string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/owner/" + ownerID)
}

func (c *PropertyClient) GetByAgent(agentID string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/agent/" + agentID)
}

func (c *PropertyClient) GetByStatus(status string) (*Response, error) {
	return c.httpClient.GET(propertiesPath + "/status/" + url.PathEscape(status))
}

func (c *PropertyClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PUT(propertiesPath+"/id/"+id, body)
}

func (c *PropertyClient) AddImages(id string, body any) (*Response, error) {
	return c.httpClient.POST(propertiesPath+"/id/"+id+"/images", body)
}

func (c *PropertyClient) AddVideos(id string, body any) (*Response, error) {
	return c.httpClient.POST(propertiesPath+"/id/"+id+"/videos", body)
}

func (c *PropertyClient) ReplaceImages(id string, body any) (*Response, error) {
	return c.httpClient.PUT(propertiesPath+"/id/"+id+"/images", body)
}

func (c *PropertyClient) ReplaceVideos(id string, body any) (*Response, error) {
	return c.httpClient.PUT(propertiesPath+"/id/"+id+"/videos", body)
}

func (c *PropertyClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE(propertiesPath + "/id/" + id)
}
