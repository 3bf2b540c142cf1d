// Package fips translates a FIPS compliance selector into Ubuntu Pro
// service changes. Ubuntu ships two mutually exclusive FIPS entitlements:
// the certified frozen module set ("fips") and the certified-then-patched
// stream ("fips-updates"). Selecting one implies disabling the other.
package fips

import (
	"fmt"
	"slices"

	"github.com/insan3d/proctl/internal/reconcile"
	proctlerrors "github.com/insan3d/proctl/pkg/errors"
)

// Entitlement names as the pro CLI knows them.
const (
	ServiceFIPS        = "fips"
	ServiceFIPSUpdates = "fips-updates"
)

// Selection is the caller-facing FIPS selector.
type Selection string

const (
	// Latest tracks the patched FIPS stream (fips-updates).
	Latest Selection = "latest"
	// Frozen pins the certified module set exactly as validated (fips).
	Frozen Selection = "frozen"
	// Absent disables both FIPS entitlements.
	Absent Selection = "absent"
	// Unmanaged leaves FIPS entitlements untouched.
	Unmanaged Selection = ""
)

// Validate rejects unrecognized selector values.
func (s Selection) Validate() error {
	switch s {
	case Latest, Frozen, Absent, Unmanaged:
		return nil
	}
	return proctlerrors.NewValidationError("fips.status",
		fmt.Sprintf("unrecognized value %q, expected latest, frozen or absent", string(s)), nil)
}

// services returns the enable/disable sets implied by the selector.
func (s Selection) services() (enable, disable []string) {
	switch s {
	case Latest:
		return []string{ServiceFIPSUpdates}, []string{ServiceFIPS}
	case Frozen:
		return []string{ServiceFIPS}, []string{ServiceFIPSUpdates}
	case Absent:
		return nil, []string{ServiceFIPS, ServiceFIPSUpdates}
	}
	return nil, nil
}

// Apply merges the selector's implied service changes into a declaration.
// Explicit service lists that contradict the selector are rejected rather
// than silently resolved: the caller has declared two different states for
// the same entitlement.
func Apply(sel Selection, desired reconcile.DesiredState) (reconcile.DesiredState, error) {
	if err := sel.Validate(); err != nil {
		return desired, err
	}

	enable, disable := sel.services()
	if len(enable) == 0 && len(disable) == 0 {
		return desired, nil
	}

	for _, svc := range enable {
		if slices.Contains(desired.Disable, svc) {
			return desired, proctlerrors.NewValidationError("fips.status",
				fmt.Sprintf("selector %q enables %s but the declaration disables it", sel, svc), nil)
		}
		if !slices.Contains(desired.Enable, svc) {
			desired.Enable = append(desired.Enable, svc)
		}
	}

	for _, svc := range disable {
		if slices.Contains(desired.Enable, svc) {
			return desired, proctlerrors.NewValidationError("fips.status",
				fmt.Sprintf("selector %q disables %s but the declaration enables it", sel, svc), nil)
		}
		if !slices.Contains(desired.Disable, svc) {
			desired.Disable = append(desired.Disable, svc)
		}
	}

	return desired, nil
}
