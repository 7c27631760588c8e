package service

import (
	"context"
	"fmt"

	core "roomly/internal/gateway/core"
	"roomly/internal/gateway/flows"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
)

// GatewayService runs named flows against the downstream services. Flows
// are registered once at construction; there is no dynamic registry.
type GatewayService struct {
	engine *core.Engine
	cfg    *config.Config
}

func NewGatewayService(cfg *config.Config) *GatewayService {
	engine := core.NewEngine(
		flows.NewListingDetail(),
		flows.NewStartCheckout(cfg.SessionWarning),
		flows.NewActiveHolds(),
	)
	return &GatewayService{
		engine: engine,
		cfg:    cfg,
	}
}

func (s *GatewayService) ExecuteFlow(ctx context.Context, flowName string, userID string, input map[string]any) (map[string]any, error) {
	if !s.engine.Has(flowName) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown flow: %s", flowName))
	}

	flowCtx := core.NewFlowContext(ctx, input, s.cfg.Client, userID, s.cfg.GatewaySigningSecret)
	if err := s.engine.Run(flowName, flowCtx); err != nil {
		if appErr := apperrors.AsAppError(err); appErr != nil {
			return nil, appErr
		}
		s.cfg.Log.Error("Flow execution failed", "flow", flowName, "error", err)
		return nil, apperrors.Internal("Flow execution failed", err)
	}

	return flowCtx.Output, nil
}

func (s *GatewayService) AvailableFlows() []string {
	return s.engine.Names()
}
