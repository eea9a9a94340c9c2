package services

import (
	goerrors "errors"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/hirewire/control-tower/pkg/errors"
)

// Field names suspected to contain personally identifiable information
var piiFields []string = []string{
	"username",
	"first_name",
	"last_name",
	"email",
	"address",
}

func HandleGetError(resourceType, field string, value interface{}, err error) *errors.ServiceError {
	// Sanitize errors of any personally identifiable information
	for _, f := range piiFields {
		if field == f {
			value = "<redacted>"
			break
		}
	}
	if goerrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound("%s with %s='%v' not found", resourceType, field, value)
	}
	return errors.Persistence("Unable to find %s with %s='%v': %s", resourceType, field, value, err)
}

func HandleCreateError(resourceType string, err error) *errors.ServiceError {
	if strings.Contains(err.Error(), "violates unique constraint") {
		return errors.Conflict("This %s already exists, please try a different name", resourceType)
	}
	return errors.Persistence("Unable to create %s: %s", resourceType, err.Error())
}

func HandleUpdateError(resourceType string, err error) *errors.ServiceError {
	if strings.Contains(err.Error(), "violates unique constraint") {
		return errors.Conflict("Changes to %s conflict with existing records", resourceType)
	}
	return errors.Persistence("Unable to update %s: %s", resourceType, err.Error())
}

func HandleDeleteError(resourceType string, err error) *errors.ServiceError {
	return errors.Persistence("Unable to delete %s: %s", resourceType, err.Error())
}

// ListArguments are arguments relevant for listing objects.
// This struct is common to all service List funcs in this package
type ListArguments struct {
	Page int
	Size int
}

// NewListArguments - Create ListArguments from url query parameters with sane defaults
func NewListArguments(params url.Values) *ListArguments {
	listArgs := &ListArguments{
		Page: 1,
		Size: 100,
	}
	if v := strings.Trim(params.Get("page"), " "); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			listArgs.Page = page
		}
	}
	if v := strings.Trim(params.Get("size"), " "); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			listArgs.Size = size
		}
	}
	if listArgs.Size > 500 || listArgs.Size < 0 {
		// make sure one can not download the whole db in one call
		listArgs.Size = 500
	}
	return listArgs
}

func (la *ListArguments) Validate() error {
	if la.Page < 0 {
		return goerrors.New("page must be equal or greater than 0")
	}
	if la.Size < 1 {
		return goerrors.New("size must be equal or greater than 1")
	}
	return nil
}
