package core

import (
	"context"
	"fmt"

	"roomly/pkg/client"
	"roomly/pkg/middleware"
)

// FlowContext carries one flow execution: the caller's input, scratch
// space shared between steps, the composed output, and authenticated
// clients for the downstream services.
type FlowContext struct {
	Ctx     context.Context
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	UserID  string

	signingSecret string
}

func NewFlowContext(ctx context.Context, input map[string]any, client *client.Client, userID string, signingSecret string) *FlowContext {
	return &FlowContext{
		Ctx:           ctx,
		Input:         input,
		Process:       make(map[string]any),
		Output:        make(map[string]any),
		Client:        client,
		UserID:        userID,
		signingSecret: signingSecret,
	}
}

// AuthHeaders builds the identity headers forwarded to downstream
// services. body must be the exact bytes the request will carry, since
// the signature covers them.
func (ctx *FlowContext) AuthHeaders(body []byte) map[string]string {
	headers := map[string]string{
		middleware.UserIDHeader: ctx.UserID,
	}
	if ctx.signingSecret != "" {
		headers[middleware.SignatureHeader] = middleware.SignRequest(ctx.UserID, body, ctx.signingSecret)
	}
	return headers
}

func (ctx *FlowContext) ExtractString(key string) string {
	raw, ok := ctx.Input[key]
	if !ok {
		return ""
	}
	str, ok := raw.(string)
	if !ok {
		return ""
	}
	return str
}

func (ctx *FlowContext) ExtractInt(key string) (int, bool) {
	raw, ok := ctx.Input[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func (ctx *FlowContext) RequireString(key string) (string, error) {
	str := ctx.ExtractString(key)
	if IsMissing(str) {
		return "", MissingParamErr(key)
	}
	return str, nil
}

// StashedString reads a value a previous step put into Process.
func (ctx *FlowContext) StashedString(key string) (string, error) {
	raw, ok := ctx.Process[key]
	if !ok {
		return "", fmt.Errorf("step dependency [%v] was never produced", key)
	}
	str, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("step dependency [%v] has unexpected type %T", key, raw)
	}
	return str, nil
}
