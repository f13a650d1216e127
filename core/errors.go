package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyModuleID is returned when a descriptor has no ID.
	ErrEmptyModuleID = errors.New("module id is empty")
	// ErrTimeout marks a module call abandoned by the supervisor.
	ErrTimeout = errors.New("module call timed out")
	// ErrAlreadyStarted is returned by a second StartAll on one orchestrator.
	ErrAlreadyStarted = errors.New("orchestrator already started")
)

// SelfDependencyError reports a module listing itself as a dependency.
type SelfDependencyError struct {
	Module string
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("module %s depends on itself", e.Module)
}

// MissingDependencyError reports a dependency that is not among the enabled
// modules.
type MissingDependencyError struct {
	Module  string
	Missing string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("module %s: dependency %s is missing or disabled", e.Module, e.Missing)
}

// CyclicDependencyError lists every module that sits on at least one cycle.
type CyclicDependencyError struct {
	Members []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle between modules: %s", strings.Join(e.Members, ", "))
}

// DuplicateModuleError reports two descriptors sharing an ID.
type DuplicateModuleError struct {
	Module string
}

func (e *DuplicateModuleError) Error() string {
	return "duplicate module id: " + e.Module
}

// UnknownModuleError reports configuration for a module nobody supplied.
type UnknownModuleError struct {
	Module string
}

func (e *UnknownModuleError) Error() string {
	return "settings given for unknown module: " + e.Module
}

// IsResolutionError reports whether err means no safe load plan exists.
func IsResolutionError(err error) bool {
	var (
		self  *SelfDependencyError
		miss  *MissingDependencyError
		cycle *CyclicDependencyError
		dup   *DuplicateModuleError
	)
	return errors.As(err, &self) || errors.As(err, &miss) ||
		errors.As(err, &cycle) || errors.As(err, &dup) ||
		errors.Is(err, ErrEmptyModuleID)
}

// PhaseError is a failure of one module in one lifecycle phase. It is
// recorded in the Report and never returned by the orchestrator.
type PhaseError struct {
	Module string
	Phase  Phase
	Err    error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("module %s %s: %v", e.Module, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// PanicError carries a value recovered from a module call.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RequiredModuleError is returned by App.Run when a required module faulted.
type RequiredModuleError struct {
	Modules []string
}

func (e *RequiredModuleError) Error() string {
	return fmt.Sprintf("required modules faulted: %s", strings.Join(e.Modules, ", "))
}
