package client

import "fmt"

const (
	agentsPath    = "/api/v1/agents"
	clientsPath   = "/api/v1/clients"
	membersPath   = "/api/v1/members"
	wishlistsPath = "/api/v1/wishlists"
)

// MemberClient covers the members service, which also serves wishlists.
type MemberClient struct {
	httpClient *HttpClient
}

func NewMemberClient(baseUrl string) *MemberClient {
	return &MemberClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *MemberClient) CreateAgent(body any) (*Response, error) {
	return c.httpClient.POST(agentsPath, body)
}

func (c *MemberClient) CreateClient(body any) (*Response, error) {
	return c.httpClient.POST(clientsPath, body)
}

func (c *MemberClient) GetAgent(id string) (*Response, error) {
	return c.httpClient.GET(agentsPath + "/id/" + id)
}

func (c *MemberClient) GetClient(id string) (*Response, error) {
	return c.httpClient.GET(clientsPath + "/id/" + id)
}

func (c *MemberClient) ListAgents(limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(fmt.Sprintf("%s?limit=%d&offset=%d", agentsPath, limit, offset))
}

func (c *MemberClient) ListClients(limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(fmt.Sprintf("%s?limit=%d&offset=%d", clientsPath, limit, offset))
}

func (c *MemberClient) VerifyAgent(id string, body any) (*Response, error) {
	return c.httpClient.PUT(agentsPath+"/id/"+id+"/verification", body)
}

func (c *MemberClient) UpdateStatus(id string, body any) (*Response, error) {
	return c.httpClient.PATCH(membersPath+"/id/"+id+"/status", body)
}

func (c *MemberClient) GetMember(id string) (*Response, error) {
	return c.httpClient.GET(membersPath + "/id/" + id)
}

func (c *MemberClient) DeleteMember(id string) (*Response, error) {
	return c.httpClient.DELETE(membersPath + "/id/" + id)
}

func (c *MemberClient) AddToWishlist(body any) (*Response, error) {
	return c.httpClient.POST(wishlistsPath, body)
}

func (c *MemberClient) GetWishlist(clientID string) (*Response, error) {
	return c.httpClient.GET(wishlistsPath + "/client/" + clientID)
}

func (c *MemberClient) RemoveFromWishlist(id string) (*Response, error) {
	return c.httpClient.DELETE(wishlistsPath + "/id/" + id)
}

func (c *MemberClient) RemovePropertyFromWishlist(clientID, propertyID string) (*Response, error) {
	return c.httpClient.DELETE(wishlistsPath + "/client/" + clientID + "/property/" + propertyID)
}
