package core

import (
	"fmt"
	"sort"
)

type Flow interface {
	Name() string
	Steps() []*Step
}

type Engine struct {
	flows map[string]Flow
}

func NewEngine(flows ...Flow) *Engine {
	m := map[string]Flow{}
	for _, f := range flows {
		m[f.Name()] = f
	}
	return &Engine{flows: m}
}

func (e *Engine) Run(flowName string, ctx *FlowContext) error {
	f, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("unsupported flow: %v", flowName)
	}
	for _, step := range f.Steps() {
		err := step.Execute(ctx)
		if err != nil {
			return fmt.Errorf("%s step failed, pipeline errored: %w", step.Name, err)
		}
	}
	return nil
}

func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.flows))
	for name := range e.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) Has(flowName string) bool {
	_, exists := e.flows[flowName]
	return exists
}
