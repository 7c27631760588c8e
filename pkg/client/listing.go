package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"roomly/pkg/model"
)

type ListingClient struct {
	httpClient *HttpClient
}

func NewListingClient(baseURL string) *ListingClient {
	return &ListingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ListingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/listings/id/"+url.PathEscape(id), nil)
}

func (c *ListingClient) GetAvailability(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/listings/id/"+url.PathEscape(id)+"/availability", nil)
}

func (c *ListingClient) CanBook(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/listings/id/"+url.PathEscape(id)+"/can-book", headers)
}

func (c *ListingClient) Search(ctx context.Context, city string, minPrice, maxPrice int64, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("city", city)
	if minPrice > 0 {
		q.Set("min_price", fmt.Sprintf("%d", minPrice))
	}
	if maxPrice > 0 {
		q.Set("max_price", fmt.Sprintf("%d", maxPrice))
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET(ctx, "/api/v1/listings/search?"+q.Encode(), nil)
}

func (c *ListingClient) DecodeListing(resp *Response) (*model.Listing, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode listing wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var listing model.Listing
	if err := json.Unmarshal(wrapper.Data, &listing); err != nil {
		return nil, fmt.Errorf("could not decode listing json:\n%+v\n%s", resp.ToString(), err)
	}
	return &listing, nil
}

func (c *ListingClient) DecodeAvailability(resp *Response) (*model.Availability, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var availability model.Availability
	if err := json.Unmarshal(wrapper.Data, &availability); err != nil {
		return nil, fmt.Errorf("could not decode availability json:\n%+v\n%s", resp.ToString(), err)
	}
	return &availability, nil
}

func (c *ListingClient) DecodeCanBook(resp *Response) (*model.CanBook, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode can-book wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var verdict model.CanBook
	if err := json.Unmarshal(wrapper.Data, &verdict); err != nil {
		return nil, fmt.Errorf("could not decode can-book json:\n%+v\n%s", resp.ToString(), err)
	}
	return &verdict, nil
}
