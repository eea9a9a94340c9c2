package handlers

import (
	"strings"

	"github.com/hirewire/control-tower/pkg/errors"
)

func ValidateNotEmpty(value *string, field string) Validate {
	return func() *errors.ServiceError {
		if value == nil || len(*value) == 0 {
			return errors.Validation("%s is required", field)
		}
		return nil
	}
}

func ValidateInclusionIn(value *string, list []string) Validate {
	return func() *errors.ServiceError {
		for _, item := range list {
			if strings.EqualFold(*value, item) {
				return nil
			}
		}
		return errors.Validation("%s is not a valid value", *value)
	}
}
