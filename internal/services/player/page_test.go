package player

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/model"
)

type PageSuite struct {
	suite.Suite
}

func TestPageSuite(t *testing.T) {
	suite.Run(t, new(PageSuite))
}

func (s *PageSuite) TestDefaults() {
	page, err := ResolvePage(map[string]string{})
	s.Require().NoError(err)
	s.Equal(model.PageRequest{Number: 0, Size: 3, Order: model.OrderID}, page)
}

func (s *PageSuite) TestExplicitValues() {
	page, err := ResolvePage(map[string]string{
		ParamPageNumber: "2",
		ParamPageSize:   "10",
		ParamOrder:      "EXPERIENCE",
	})
	s.Require().NoError(err)
	s.Equal(model.PageRequest{Number: 2, Size: 10, Order: model.OrderExperience}, page)
	s.Equal(20, page.Offset())
}

func (s *PageSuite) TestEveryOrderKey() {
	for _, order := range model.PlayerOrders {
		page, err := ResolvePage(map[string]string{ParamOrder: string(order)})
		s.Require().NoError(err)
		s.Equal(order, page.Order)
	}
}

func (s *PageSuite) TestInvalidValues() {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown order", ParamOrder, "AGE"},
		{"lower case order", ParamOrder, "name"},
		{"negative page", ParamPageNumber, "-1"},
		{"page not a number", ParamPageNumber, "first"},
		{"zero size", ParamPageSize, "0"},
		{"size not a number", ParamPageSize, "many"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := ResolvePage(map[string]string{tt.key: tt.value})
			s.Require().ErrorIs(err, model.ErrValidation)

			var ve *model.ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Equal(tt.key, ve.Field)
		})
	}
}
