// Package plugin holds what every processor built on the framework shares:
// metadata, the parameter registry, persisted state and the editor handle.
package plugin

import (
	"errors"
	"fmt"
)

// Info contains plugin metadata
type Info struct {
	Name    string
	Vendor  string
	Version string
	URL     string
	Email   string
}

// Validate checks that the metadata needed for display is present.
func (i Info) Validate() error {
	var errs []error
	if i.Name == "" {
		errs = append(errs, errors.New("plugin name is required"))
	}
	if i.Version == "" {
		errs = append(errs, errors.New("plugin version is required"))
	}
	return errors.Join(errs...)
}

// String returns "Name Version by Vendor".
func (i Info) String() string {
	if i.Vendor == "" {
		return fmt.Sprintf("%s %s", i.Name, i.Version)
	}
	return fmt.Sprintf("%s %s by %s", i.Name, i.Version, i.Vendor)
}
