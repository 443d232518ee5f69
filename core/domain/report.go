package domain

import (
	"fmt"
	"slices"
	"sort"
)

// ParamType is the declared type of a statement parameter
type ParamType string

const (
	ParamTypeInt ParamType = "int"
)

// Parameter describes one named bind of a statement
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Default     int
	Min         int
	Max         int
}

// Statement represents one fixed report: a named SQL template plus its parameter
// contract and the columns it is expected to return.
type Statement struct {
	Name        string
	Description string
	SQL         string
	Params      []Parameter
	Columns     []string
}

// Validate validates the statement definition
func (s Statement) Validate() error {
	if s.Name == "" {
		return ErrInvalidStatementName
	}
	if s.SQL == "" {
		return ErrInvalidStatementSQL
	}
	seen := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if p.Name == "" {
			return ErrInvalidParameterName
		}
		if seen[p.Name] {
			return &DomainError{Message: fmt.Sprintf("statement '%s' declares parameter '%s' twice", s.Name, p.Name)}
		}
		seen[p.Name] = true
		if p.Min > p.Max {
			return &DomainError{Message: fmt.Sprintf("parameter '%s' has min %d above max %d", p.Name, p.Min, p.Max)}
		}
		if p.Default < p.Min || p.Default > p.Max {
			return &DomainError{Message: fmt.Sprintf("parameter '%s' default %d outside [%d,%d]", p.Name, p.Default, p.Min, p.Max)}
		}
	}
	return nil
}

// Param returns the parameter declared under name
func (s Statement) Param(name string) (Parameter, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Clone returns a deep copy so catalog entries cannot be mutated through callers
func (s Statement) Clone() Statement {
	s.Params = slices.Clone(s.Params)
	s.Columns = slices.Clone(s.Columns)
	return s
}

// ParameterSet maps parameter names to validated values for a single execution
type ParameterSet map[string]any

// Names returns the parameter names in sorted order
func (p ParameterSet) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Domain errors
var (
	ErrInvalidStatementName = &DomainError{Message: "statement name cannot be empty"}
	ErrInvalidStatementSQL  = &DomainError{Message: "statement sql cannot be empty"}
	ErrInvalidParameterName = &DomainError{Message: "parameter name cannot be empty"}
)

// DomainError represents a domain-level error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
