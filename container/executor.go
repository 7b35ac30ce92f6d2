package container

import (
	"myregistry/domain"
	"myregistry/interfaces"
)

// FuncExecutor adapts closures to interfaces.Executor, for services that do not need their own type.
type FuncExecutor struct {
	id   domain.ServiceID
	run  func(port uint16) bool
	stop func()
	meta string
}

var _ interfaces.Executor = (*FuncExecutor)(nil)

// NewFuncExecutor returns an executor for serviceID running run on the allocated port.
func NewFuncExecutor(serviceID domain.ServiceID, run func(port uint16) bool) *FuncExecutor {
	return &FuncExecutor{id: serviceID, run: run}
}

// WithStop sets the shutdown hook.
func (e *FuncExecutor) WithStop(stop func()) *FuncExecutor {
	e.stop = stop
	return e
}

// WithMeta sets the description stored on the service record.
func (e *FuncExecutor) WithMeta(meta string) *FuncExecutor {
	e.meta = meta
	return e
}

func (e *FuncExecutor) ServiceID() domain.ServiceID { return e.id }

func (e *FuncExecutor) Run(port uint16) bool {
	if e.run == nil {
		return true
	}
	return e.run(port)
}

func (e *FuncExecutor) Stop() {
	if e.stop != nil {
		e.stop()
	}
}

func (e *FuncExecutor) Meta() string { return e.meta }
