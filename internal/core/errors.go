package core

import "fmt"

// ErrClusterNotFound indicates that the requested cluster is not in
// the cluster catalogue.
type ErrClusterNotFound struct {
	Cluster string
}

func (e *ErrClusterNotFound) Error() string {
	return fmt.Sprintf("cluster %s not registered", e.Cluster)
}

// ErrInvalidInput indicates a domain-level input validation failure.
type ErrInvalidInput struct {
	Field   string
	Message string
}

func (e *ErrInvalidInput) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ErrSessionNotFound indicates that a drawer session does not exist or
// has expired.
type ErrSessionNotFound struct {
	ID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("drawer session %q not found", e.ID)
}

// ErrUnsupportedDashboard is returned by a LinkFormatter when no
// formatter is registered under the requested dashboard application.
type ErrUnsupportedDashboard struct {
	App string
}

func (e *ErrUnsupportedDashboard) Error() string {
	return fmt.Sprintf("could not find Kubernetes dashboard app named '%s'", e.App)
}
