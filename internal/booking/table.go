//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package booking

import (
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Columns is the booking fact schema.
var Columns = []string{
	"booking_id", "booking_date", "date_key", "route_id", "region",
	"guide_id", "party_size", "difficulty", "duration_hours",
	"discount_flag", "discount_pct", "price_per_person_ex_vat",
	"sales_ex_vat", "vat_amount", "sales_inc_vat", "staff_cost",
	"margin_amount", "margin_pct", "season", "is_weekend",
	"is_bank_holiday", "holiday_division",
}

// Table renders bookings as a fact table named name.
func Table(name string, bookings []Booking) *table.Table {
	t := table.New(name, Columns...)
	for _, b := range bookings {
		t.Append(
			table.Int(b.BookingID),
			table.Date(b.BookingDate),
			table.Int(b.DateKey),
			table.Int(b.RouteID),
			b.Region,
			table.Int(b.GuideID),
			table.Int(b.PartySize),
			b.Difficulty,
			table.Float(b.DurationHours),
			table.Bool(b.DiscountFlag),
			table.Float(b.DiscountPct),
			table.Float(b.PricePerPersonExVAT),
			table.Float(b.SalesExVAT),
			table.Float(b.VATAmount),
			table.Float(b.SalesIncVAT),
			table.Float(b.StaffCost),
			table.Float(b.MarginAmount),
			table.Float(b.MarginPct),
			b.Season,
			table.Bool(b.IsWeekend),
			table.Bool(b.IsBankHoliday),
			b.HolidayDivision,
		)
	}
	return t
}
