package flows

import (
	"sync"

	core "roomly/internal/gateway/core"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// ListingDetail assembles everything the listing page needs in one round
// trip: the listing document, the live slot projection, and the caller's
// booking-eligibility verdict.
type ListingDetail struct{}

func NewListingDetail() *ListingDetail {
	return &ListingDetail{}
}

func (f *ListingDetail) Name() string {
	return "listing_detail"
}

func (f *ListingDetail) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("fetch_listing", fetchListing),
		core.NewStep("fetch_projection", fetchProjection),
		core.NewStep("compose_detail", composeDetail),
	}
}

func fetchListing(ctx *core.FlowContext) error {
	listingID, err := ctx.RequireString("listing_id")
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	resp, err := ctx.Client.ListingClient.GetByID(ctx.Ctx, listingID)
	if err != nil {
		return apperrors.Unavailable("Listings service")
	}
	if !isSuccess(resp) {
		return upstreamError("Listings service", resp)
	}

	listing, err := ctx.Client.ListingClient.DecodeListing(resp)
	if err != nil {
		return apperrors.Internal("Failed to decode listing", err)
	}

	ctx.Process["listing_id"] = listingID
	ctx.Process["listing"] = listing
	return nil
}

// fetchProjection pulls availability and the can-book verdict in parallel;
// both read the same slot documents, so neither depends on the other.
func fetchProjection(ctx *core.FlowContext) error {
	listingID, err := ctx.StashedString("listing_id")
	if err != nil {
		return err
	}

	var (
		availability *model.Availability
		verdict      *model.CanBook
		errAvail     error
		errVerdict   error
		wg           sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		core.RunWithRateLimitedConcurrency(func() {
			resp, err := ctx.Client.ListingClient.GetAvailability(ctx.Ctx, listingID)
			if err != nil {
				errAvail = apperrors.Unavailable("Listings service")
				return
			}
			if !isSuccess(resp) {
				errAvail = upstreamError("Listings service", resp)
				return
			}
			availability, errAvail = ctx.Client.ListingClient.DecodeAvailability(resp)
		})
	}()

	go func() {
		defer wg.Done()
		core.RunWithRateLimitedConcurrency(func() {
			resp, err := ctx.Client.ListingClient.CanBook(ctx.Ctx, listingID, ctx.AuthHeaders(nil))
			if err != nil {
				errVerdict = apperrors.Unavailable("Listings service")
				return
			}
			if !isSuccess(resp) {
				errVerdict = upstreamError("Listings service", resp)
				return
			}
			verdict, errVerdict = ctx.Client.ListingClient.DecodeCanBook(resp)
		})
	}()

	wg.Wait()
	if errAvail != nil {
		return errAvail
	}
	if errVerdict != nil {
		return errVerdict
	}

	ctx.Process["availability"] = availability
	ctx.Process["can_book"] = verdict
	return nil
}

func composeDetail(ctx *core.FlowContext) error {
	ctx.Output["listing"] = ctx.Process["listing"]
	ctx.Output["availability"] = ctx.Process["availability"]
	ctx.Output["can_book"] = ctx.Process["can_book"]
	return nil
}
