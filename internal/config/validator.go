package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	proctlerrors "github.com/insan3d/proctl/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)

	// Service names are opaque identifiers owned by the pro CLI; only the
	// lexical shape is checked here, never membership in a known set.
	serviceNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("service_name", func(fl validator.FieldLevel) bool {
			return serviceNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the declaration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return proctlerrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if cfg.Pro.Attachment == "detached" {
		if len(cfg.Pro.Enable) > 0 || len(cfg.Pro.Disable) > 0 {
			return proctlerrors.NewValidationError("pro.attachment",
				"enable/disable cannot be used with a detached state", nil)
		}
		if cfg.FIPS.Status != "" {
			return proctlerrors.NewValidationError("fips.status",
				"a FIPS selector cannot be used with a detached state", nil)
		}
	}

	enabled := make(map[string]struct{}, len(cfg.Pro.Enable))
	for _, svc := range cfg.Pro.Enable {
		enabled[svc] = struct{}{}
	}
	for _, svc := range cfg.Pro.Disable {
		if _, dup := enabled[svc]; dup {
			return proctlerrors.NewValidationError("pro.disable",
				fmt.Sprintf("service %q is listed for both enable and disable", svc), nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return proctlerrors.NewValidationError(field, msg, err)
	}

	return proctlerrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
