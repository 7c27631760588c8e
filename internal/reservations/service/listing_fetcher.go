package service

import (
	"context"
	"fmt"
	"net/http"

	reserrors "roomly/internal/reservations/errors"
	"roomly/pkg/client"
	"roomly/pkg/model"
)

// ListingFetcher resolves the listing a checkout snapshots its price and
// terms from. Abstracted so service tests can stub the listings service.
type ListingFetcher interface {
	FetchListing(ctx context.Context, id string) (*model.Listing, error)
}

type httpListingFetcher struct {
	client *client.ListingClient
}

func NewHTTPListingFetcher(listingClient *client.ListingClient) ListingFetcher {
	return &httpListingFetcher{client: listingClient}
}

func (f *httpListingFetcher) FetchListing(ctx context.Context, id string) (*model.Listing, error) {
	resp, err := f.client.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listings service unreachable: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return f.client.DecodeListing(resp)
	case http.StatusNotFound:
		return nil, reserrors.ErrNotFound
	default:
		return nil, fmt.Errorf("listings service returned %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
}
