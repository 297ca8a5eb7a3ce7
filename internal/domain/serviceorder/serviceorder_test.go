//go:build unit

package serviceorder_test

import (
	"strings"
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/serviceorder"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceOrder(t *testing.T) {
	now := time.Date(2030, 3, 10, 15, 0, 0, 0, time.UTC)
	pricing := serviceorder.PricingSpec{
		ID:              uuid.New(),
		ServiceVendorID: uuid.New(),
		VendorUserID:    uuid.New(),
		Price:           money.FromKobo(5000000),
		IsActive:        true,
	}

	cases := []struct {
		name         string
		deadline     time.Time
		requirements string
		pricing      serviceorder.PricingSpec
		errIs        error
	}{
		{name: "today deadline", deadline: now, requirements: "logo design", pricing: pricing},
		{name: "past deadline", deadline: now.AddDate(0, 0, -1), requirements: "logo design", pricing: pricing, errIs: serviceorder.ErrDeadlineInPast},
		{name: "empty requirements", deadline: now, requirements: "  ", pricing: pricing, errIs: serviceorder.ErrRequirementsRequired},
		{name: "requirements too long", deadline: now, requirements: strings.Repeat("x", 2001), pricing: pricing, errIs: serviceorder.ErrRequirementsTooLong},
		{name: "inactive pricing", deadline: now, requirements: "x", pricing: serviceorder.PricingSpec{}, errIs: serviceorder.ErrPricingInactive},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o, err := serviceorder.NewServiceOrder(c.pricing, uuid.New(), c.deadline, c.requirements, now)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pricing.Price, o.Amount())
			assert.Equal(t, serviceorder.StatusPending, o.Status())
			assert.Equal(t, pricing.VendorUserID, o.VendorUserID())
		})
	}

	t.Run("respond only while pending", func(t *testing.T) {
		o, err := serviceorder.NewServiceOrder(pricing, uuid.New(), now, "logo", now)
		require.NoError(t, err)

		require.NoError(t, o.Respond(serviceorder.ResponseAccept, " on it ", now))
		assert.Equal(t, "on it", o.VendorNote())
		assert.ErrorIs(t, o.Respond(serviceorder.ResponseDecline, "", now), serviceorder.ErrInvalidTransition)
	})
}
