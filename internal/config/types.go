package config

import (
	"github.com/insan3d/proctl/internal/fips"
	"github.com/insan3d/proctl/internal/reconcile"
)

// Config represents a full proctl declaration document.
type Config struct {
	Version     string     `yaml:"version" validate:"required,semver"`
	Name        string     `yaml:"name" validate:"required,min=1,max=100"`
	Description string     `yaml:"description,omitempty"`
	Pro         ProConfig  `yaml:"pro"`
	FIPS        FIPSConfig `yaml:"fips,omitempty"`
}

// ProConfig declares the target Ubuntu Pro attachment and service state.
type ProConfig struct {
	Attachment string   `yaml:"attachment" validate:"required,oneof=attached detached"`
	Token      string   `yaml:"token,omitempty"`
	Enable     []string `yaml:"enable,omitempty" validate:"omitempty,dive,service_name"`
	Disable    []string `yaml:"disable,omitempty" validate:"omitempty,dive,service_name"`
}

// FIPSConfig selects which FIPS entitlement stream, if any, the machine
// should run.
type FIPSConfig struct {
	Status string `yaml:"status,omitempty" validate:"omitempty,oneof=latest frozen absent"`
}

// DesiredState builds the reconciler declaration from the document,
// folding the FIPS selector into the service lists.
func (c *Config) DesiredState() (reconcile.DesiredState, error) {
	desired := reconcile.DesiredState{
		Attachment: reconcile.Attachment(c.Pro.Attachment),
		Token:      c.Pro.Token,
		Enable:     append([]string(nil), c.Pro.Enable...),
		Disable:    append([]string(nil), c.Pro.Disable...),
	}

	return fips.Apply(fips.Selection(c.FIPS.Status), desired)
}
