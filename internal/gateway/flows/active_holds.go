package flows

import (
	"net/http"
	"sync"

	core "roomly/internal/gateway/core"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// ActiveHolds paints the "my holds" screen: the caller's active commitment
// and checkout session, each joined with the listing it is holding. Either
// may be absent; a 404 from the reservations service means "none", not an
// error.
type ActiveHolds struct{}

func NewActiveHolds() *ActiveHolds {
	return &ActiveHolds{}
}

func (f *ActiveHolds) Name() string {
	return "active_holds"
}

func (f *ActiveHolds) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("fetch_holds", fetchHolds),
		core.NewStep("join_listings", joinListings),
		core.NewStep("compose_holds", composeHolds),
	}
}

func fetchHolds(ctx *core.FlowContext) error {
	if core.IsMissing(ctx.UserID) {
		return apperrors.Unauthorized("Sign in to view your holds")
	}

	var (
		commitment     *model.Commitment
		sessionView    *model.ActiveSessionView
		errCommitment  error
		errSessionView error
		wg             sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		core.RunWithRateLimitedConcurrency(func() {
			resp, err := ctx.Client.ReservationClient.GetActiveCommitment(ctx.Ctx, ctx.AuthHeaders(nil))
			if err != nil {
				errCommitment = apperrors.Unavailable("Reservations service")
				return
			}
			if resp.StatusCode == http.StatusNotFound {
				return
			}
			if !isSuccess(resp) {
				errCommitment = upstreamError("Reservations service", resp)
				return
			}
			commitment, errCommitment = ctx.Client.ReservationClient.DecodeCommitment(resp)
		})
	}()

	go func() {
		defer wg.Done()
		core.RunWithRateLimitedConcurrency(func() {
			resp, err := ctx.Client.ReservationClient.GetActiveSession(ctx.Ctx, ctx.AuthHeaders(nil))
			if err != nil {
				errSessionView = apperrors.Unavailable("Reservations service")
				return
			}
			if resp.StatusCode == http.StatusNotFound {
				return
			}
			if !isSuccess(resp) {
				errSessionView = upstreamError("Reservations service", resp)
				return
			}
			sessionView, errSessionView = ctx.Client.ReservationClient.DecodeSessionView(resp)
		})
	}()

	wg.Wait()
	if errCommitment != nil {
		return errCommitment
	}
	if errSessionView != nil {
		return errSessionView
	}

	ctx.Process["commitment"] = commitment
	ctx.Process["session_view"] = sessionView
	return nil
}

// joinListings resolves the listing behind each hold. A listing deleted
// out from under a hold should not blank the whole screen, so a failed
// join leaves the listing nil rather than failing the flow.
func joinListings(ctx *core.FlowContext) error {
	listings := map[string]*model.Listing{}

	ids := []string{}
	if commitment, _ := ctx.Process["commitment"].(*model.Commitment); commitment != nil {
		ids = append(ids, commitment.ListingID)
	}
	if view, _ := ctx.Process["session_view"].(*model.ActiveSessionView); view != nil && view.Session != nil {
		ids = append(ids, view.Session.ListingID)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		mu.Lock()
		if _, seen := listings[id]; seen {
			mu.Unlock()
			continue
		}
		listings[id] = nil
		mu.Unlock()

		wg.Add(1)
		go func(listingID string) {
			defer wg.Done()
			core.RunWithRateLimitedConcurrency(func() {
				resp, err := ctx.Client.ListingClient.GetByID(ctx.Ctx, listingID)
				if err != nil || !isSuccess(resp) {
					return
				}
				listing, err := ctx.Client.ListingClient.DecodeListing(resp)
				if err != nil {
					return
				}
				mu.Lock()
				listings[listingID] = listing
				mu.Unlock()
			})
		}(id)
	}
	wg.Wait()

	ctx.Process["listings"] = listings
	return nil
}

func composeHolds(ctx *core.FlowContext) error {
	commitment, _ := ctx.Process["commitment"].(*model.Commitment)
	sessionView, _ := ctx.Process["session_view"].(*model.ActiveSessionView)
	listings, _ := ctx.Process["listings"].(map[string]*model.Listing)

	if commitment != nil {
		ctx.Output["commitment"] = map[string]any{
			"commitment": commitment,
			"listing":    listings[commitment.ListingID],
		}
	}
	if sessionView != nil && sessionView.Session != nil {
		ctx.Output["session"] = map[string]any{
			"session":           sessionView.Session,
			"seconds_remaining": sessionView.SecondsRemaining,
			"expiring_soon":     sessionView.ExpiringSoon,
			"listing":           listings[sessionView.Session.ListingID],
		}
	}
	return nil
}
