package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"roomly/pkg/model"
)

type ReservationClient struct {
	httpClient *HttpClient
}

func NewReservationClient(baseURL string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ReservationClient) AcquireCommitment(ctx context.Context, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/commitments", body, headers)
}

func (c *ReservationClient) CancelCommitment(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/commitments/id/"+url.PathEscape(id), headers)
}

func (c *ReservationClient) GetActiveCommitment(ctx context.Context, headers map[string]string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/commitments/active", headers)
}

func (c *ReservationClient) StartCheckout(ctx context.Context, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/checkout", body, headers)
}

func (c *ReservationClient) CompleteCheckout(ctx context.Context, id string, body any, headers map[string]string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/checkout/id/"+url.PathEscape(id)+"/complete", body, headers)
}

func (c *ReservationClient) CancelCheckout(ctx context.Context, id string, headers map[string]string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/checkout/id/"+url.PathEscape(id), headers)
}

func (c *ReservationClient) GetActiveSession(ctx context.Context, headers map[string]string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/checkout/active", headers)
}

func (c *ReservationClient) DecodeCommitment(resp *Response) (*model.Commitment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode commitment wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var commitment model.Commitment
	if err := json.Unmarshal(wrapper.Data, &commitment); err != nil {
		return nil, fmt.Errorf("could not decode commitment json:\n%+v\n%s", resp.ToString(), err)
	}
	return &commitment, nil
}

func (c *ReservationClient) DecodeSession(resp *Response) (*model.CheckoutSession, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode session wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var session model.CheckoutSession
	if err := json.Unmarshal(wrapper.Data, &session); err != nil {
		return nil, fmt.Errorf("could not decode session json:\n%+v\n%s", resp.ToString(), err)
	}
	return &session, nil
}

func (c *ReservationClient) DecodeSessionView(resp *Response) (*model.ActiveSessionView, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode session view wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var view model.ActiveSessionView
	if err := json.Unmarshal(wrapper.Data, &view); err != nil {
		return nil, fmt.Errorf("could not decode session view json:\n%+v\n%s", resp.ToString(), err)
	}
	return &view, nil
}
