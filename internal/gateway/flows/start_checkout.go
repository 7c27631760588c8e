package flows

import (
	"encoding/json"
	"time"

	core "roomly/internal/gateway/core"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// StartCheckout is the guarded entry into a checkout: it asks the listings
// service whether this caller may book at all, then opens the session with
// the reservations service and returns the countdown the client renders.
// The eligibility check is advisory; the reservations service re-decides
// every race at write time.
type StartCheckout struct {
	Warning time.Duration
}

func NewStartCheckout(warning time.Duration) *StartCheckout {
	return &StartCheckout{Warning: warning}
}

func (f *StartCheckout) Name() string {
	return "start_checkout"
}

func (f *StartCheckout) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("check_eligibility", checkEligibility),
		core.NewStep("open_session", openSession),
		core.NewStep("compose_session", f.composeSession),
	}
}

func checkEligibility(ctx *core.FlowContext) error {
	if core.IsMissing(ctx.UserID) {
		return apperrors.Unauthorized("Sign in to book")
	}

	listingID, err := ctx.RequireString("listing_id")
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	resp, err := ctx.Client.ListingClient.CanBook(ctx.Ctx, listingID, ctx.AuthHeaders(nil))
	if err != nil {
		return apperrors.Unavailable("Listings service")
	}
	if !isSuccess(resp) {
		return upstreamError("Listings service", resp)
	}

	verdict, err := ctx.Client.ListingClient.DecodeCanBook(resp)
	if err != nil {
		return apperrors.Internal("Failed to decode eligibility verdict", err)
	}
	if !verdict.CanBook {
		return apperrors.Conflict(verdict.Reason)
	}

	ctx.Process["listing_id"] = listingID
	return nil
}

func openSession(ctx *core.FlowContext) error {
	listingID, err := ctx.StashedString("listing_id")
	if err != nil {
		return err
	}

	payload := map[string]any{
		"listing_id": listingID,
	}
	if moveIn := ctx.ExtractString("move_in_date"); !core.IsMissing(moveIn) {
		payload["move_in_date"] = moveIn
	}
	if leaseMonths, ok := ctx.ExtractInt("lease_months"); ok {
		payload["lease_months"] = leaseMonths
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Internal("Failed to encode checkout request", err)
	}

	resp, err := ctx.Client.ReservationClient.StartCheckout(ctx.Ctx, json.RawMessage(body), ctx.AuthHeaders(body))
	if err != nil {
		return apperrors.Unavailable("Reservations service")
	}
	if !isSuccess(resp) {
		return upstreamError("Reservations service", resp)
	}

	session, err := ctx.Client.ReservationClient.DecodeSession(resp)
	if err != nil {
		return apperrors.Internal("Failed to decode checkout session", err)
	}

	ctx.Process["session"] = session
	return nil
}

func (f *StartCheckout) composeSession(ctx *core.FlowContext) error {
	session, ok := ctx.Process["session"].(*model.CheckoutSession)
	if !ok {
		return apperrors.Internal("Checkout session missing from pipeline", nil)
	}

	now := time.Now().UTC()
	ctx.Output["session"] = &model.ActiveSessionView{
		Session:          session,
		SecondsRemaining: int64(model.TimeRemaining(session.ExpiresAt, now).Seconds()),
		ExpiringSoon:     model.InWarningWindow(session.ExpiresAt, now, f.Warning),
	}
	return nil
}
