package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/event-booking/internal/model"
)

// MaxAmount is the largest value the DECIMAL(10,2) money columns hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

// MaxPlateCount bounds plate_count, an INT column.
const MaxPlateCount = math.MaxInt32

// TotalAmount is the event fee plus the price of every service.
func TotalAmount(eventFee decimal.Decimal, services []model.BookingService) decimal.Decimal {
	total := eventFee
	for _, s := range services {
		total = total.Add(s.ServicePrice)
	}
	return total.Round(2)
}

// CateringPrice is price per plate times the plate count.
func CateringPrice(pkg model.CateringPackage, plates int) decimal.Decimal {
	return pkg.PricePerPlate.Mul(decimal.NewFromInt(int64(plates))).Round(2)
}
