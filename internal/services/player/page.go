package player

import (
	"fmt"

	"github.com/mcoot/playerregistry/internal/model"
)

// ResolvePage extracts the page request from the reserved parameters,
// falling back to the defaults for any that are absent.
func ResolvePage(params map[string]string) (model.PageRequest, error) {
	page := model.PageRequest{
		Number: DefaultPageNumber,
		Size:   DefaultPageSize,
		Order:  DefaultOrder,
	}

	if raw, ok := params[ParamPageNumber]; ok {
		n, err := parseInt(raw)
		if err != nil {
			return page, model.NewValidationError(ParamPageNumber, raw, err.Error())
		}
		if n < 0 {
			return page, model.NewValidationError(ParamPageNumber, raw, "must not be negative")
		}
		page.Number = n
	}

	// No upper bound on page size
	if raw, ok := params[ParamPageSize]; ok {
		n, err := parseInt(raw)
		if err != nil {
			return page, model.NewValidationError(ParamPageSize, raw, err.Error())
		}
		if n < 1 {
			return page, model.NewValidationError(ParamPageSize, raw, "must be at least 1")
		}
		page.Size = n
	}

	if raw, ok := params[ParamOrder]; ok {
		order, ok := model.ParsePlayerOrder(raw)
		if !ok {
			return page, model.NewValidationError(ParamOrder, raw, fmt.Sprintf("unknown order %q", raw))
		}
		page.Order = order
	}

	return page, nil
}
