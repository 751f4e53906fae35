//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the tourcast stages in dependency order: seeds and
// raw pulls, dimensions, weather, simulated bookings, aggregates,
// validation, forecasting, the warehouse load and the spreadsheet export.
// Any stage failure stops the run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-tourcast/internal/aggregate"
	"github.com/pgEdge/pgedge-tourcast/internal/booking"
	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/datagen"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
	"github.com/pgEdge/pgedge-tourcast/internal/extract"
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/holidays"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
	"github.com/pgEdge/pgedge-tourcast/internal/weather"
)

// Seed file names under the raw directory.
const (
	RoutesSeed = "routes.json"
	GuidesSeed = "guides.json"
)

// Options select the optional stages of a run.
type Options struct {
	// SkipWeather skips the weather pull; weather features then come from
	// a previously built daily table or the synthetic fallback.
	SkipWeather bool

	// SkipSQL skips the warehouse load.
	SkipSQL bool

	// SkipML skips training and scoring.
	SkipML bool

	// SkipExport skips the spreadsheet export.
	SkipExport bool

	// Offline reads previously saved raw pulls instead of fetching.
	Offline bool
}

// Runner holds the state passed between stages of one run.
type Runner struct {
	cfg   *config.Config
	opts  Options
	names catalog.Names
	runID string
	now   func() time.Time
	log   zerolog.Logger

	client *extract.Client

	routes    []dims.Route
	guides    []dims.Guide
	events    []holidays.Event
	divisions holidays.DivisionMap
	closed    holidays.ClosedDays
	days      []calendar.Day
	hourly    []weather.Hourly
	weather   weather.Index

	bookings   []booking.Booking
	routeDays  []aggregate.RouteDay
	routeWeeks []aggregate.RouteWeek
}

// New creates a runner with a fresh run id.
func New(cfg *config.Config, opts Options) *Runner {
	return &Runner{
		cfg:       cfg,
		opts:      opts,
		names:     catalog.New(cfg.Horizon),
		runID:     uuid.NewString(),
		now:       time.Now,
		log:       logging.Component("pipeline"),
		client:    extract.NewClient(time.Duration(cfg.BankHolidays.TimeoutSeconds) * time.Second),
		divisions: holidays.DefaultDivisions(),
	}
}

// RunID identifies this run on bundles, metrics and warehouse metadata.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes every enabled stage in order.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info().
		Str("run_id", r.runID).
		Uint64("seed", r.cfg.Simulation.Seed).
		Bool("offline", r.opts.Offline).
		Msg("Starting pipeline")

	steps := []struct {
		name string
		skip bool
		fn   func() error
	}{
		{"DIM: routes and guides", false, r.buildSeeds},
		{"API: bank holidays (raw pull)", false, func() error { return r.pullBankHolidays(ctx) }},
		{"DIM: date with bank holiday flags", false, r.buildCalendar},
		{"TRANSFORM: bank holiday dimensions", false, r.buildHolidayDims},
		{"API: weather pull -> hourly", r.opts.SkipWeather, func() error { return r.pullWeather(ctx) }},
		{"TRANSFORM: weather daily features", r.opts.SkipWeather, r.buildWeatherDaily},
		{"TRANSFORM: reuse daily weather", !r.opts.SkipWeather, r.loadWeatherDaily},
		{"SYNTH: generate fact_bookings", false, func() error { return r.generateBookings(ctx) }},
		{"MODEL: build route-day and route-week", false, r.buildAggregates},
		{"QUALITY: validate schema + ranges", false, func() error { return Validate(r.cfg) }},
		{"ML: train variants + predict forecast year", r.opts.SkipML, func() error { return r.forecast(ctx) }},
		{"SQL: load warehouse", r.opts.SkipSQL, func() error { return r.loadWarehouse(ctx) }},
		{"PBI: export workbooks", r.opts.SkipExport, func() error { return Export(r.cfg) }},
	}

	for _, s := range steps {
		if s.skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Step(s.name, s.fn); err != nil {
			return err
		}
	}

	r.log.Info().Str("run_id", r.runID).Msg("Pipeline complete")
	return nil
}

// write saves t under dir using its own name.
func write(dir string, t *table.Table) error {
	return table.Write(table.Path(dir, t.Name), t)
}

func (r *Runner) buildSeeds() error {
	raw := r.cfg.Paths.Raw()

	routes, err := dims.LoadRoutes(filepath.Join(raw, RoutesSeed))
	if err != nil {
		return err
	}
	guides, err := dims.LoadGuides(filepath.Join(raw, GuidesSeed))
	if err != nil {
		return err
	}
	r.routes, r.guides = routes, guides

	processed := r.cfg.Paths.Processed()
	if err := write(processed, dims.RoutesTable(routes)); err != nil {
		return err
	}
	if err := write(processed, dims.GuidesTable(guides)); err != nil {
		return err
	}

	r.log.Info().Int("routes", len(routes)).Int("guides", len(guides)).Msg("Built dimensions")
	return nil
}

func (r *Runner) pullBankHolidays(ctx context.Context) error {
	path := extract.BankHolidaysPath(r.cfg.Paths.Raw())

	var data []byte
	var err error
	if r.opts.Offline {
		data, err = extract.LoadRaw(path)
	} else {
		reqCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.BankHolidays.TimeoutSeconds)*time.Second)
		defer cancel()
		data, err = r.client.FetchBankHolidays(reqCtx, r.cfg.BankHolidays.URL)
		if err == nil {
			err = extract.SaveRaw(path, data)
		}
	}
	if err != nil {
		return err
	}

	events, err := holidays.Parse(data)
	if err != nil {
		return err
	}
	r.events = events
	r.closed = holidays.ResolveClosedDays(events)

	r.log.Info().
		Int("events", len(events)).
		Int("closed_england_and_wales", r.closed.Count(holidays.EnglandAndWales)).
		Int("closed_scotland", r.closed.Count(holidays.Scotland)).
		Msg("Resolved bank holidays")
	return nil
}

func (r *Runner) buildCalendar() error {
	start, end, err := r.cfg.Horizon.CalendarRange()
	if err != nil {
		return err
	}
	days, err := calendar.Build(start, end, r.events)
	if err != nil {
		return err
	}
	r.days = days
	return write(r.cfg.Paths.Processed(), calendar.Table(days))
}

func (r *Runner) buildHolidayDims() error {
	processed := r.cfg.Paths.Processed()
	for _, t := range []*table.Table{
		holidays.EventsTable(r.events),
		holidays.BridgeTable(r.events),
		r.divisions.Table(),
	} {
		if err := write(processed, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) pullWeather(ctx context.Context) error {
	raw := r.cfg.Paths.Raw()
	wc := r.cfg.Weather
	progress := datagen.NewProgressReporter("weather", int64(len(r.routes)), 1)

	var hourly []weather.Hourly
	for _, route := range r.routes {
		path := extract.ForecastPath(raw, route.RouteID)

		var data []byte
		var err error
		if r.opts.Offline {
			data, err = extract.LoadRaw(path)
		} else {
			reqCtx, cancel := context.WithTimeout(ctx, time.Duration(wc.TimeoutSeconds)*time.Second)
			data, err = r.client.FetchForecast(reqCtx, wc.Endpoint, extract.ForecastQuery{
				Latitude:  route.Lat,
				Longitude: route.Lon,
				Model:     wc.Model,
				Timezone:  wc.Timezone,
			})
			cancel()
			if err == nil {
				err = extract.SaveRaw(path, data)
			}
		}
		if err != nil {
			return fmt.Errorf("weather for route %d: %w", route.RouteID, err)
		}

		rows, err := weather.ParseForecast(route.RouteID, wc.Model, data)
		if err != nil {
			return err
		}
		hourly = append(hourly, rows...)
		progress.Update(1, int64(len(rows)))
	}
	progress.Done()

	weather.SortHourly(hourly)
	r.hourly = hourly
	return write(r.cfg.Paths.Interim(), weather.HourlyTable(hourly))
}

func (r *Runner) buildWeatherDaily() error {
	daily := weather.BuildDaily(r.hourly)
	r.weather = weather.NewIndex(daily)
	r.log.Info().Int("hourly", len(r.hourly)).Int("daily", len(daily)).Msg("Rolled up weather")
	return write(r.cfg.Paths.Processed(), weather.DailyTable(daily))
}

// loadWeatherDaily reuses a daily weather table from an earlier run when
// the pull is skipped. Without one, features fall back to synthesised
// weather.
func (r *Runner) loadWeatherDaily() error {
	path := table.Path(r.cfg.Paths.Processed(), catalog.WeatherDaily)
	if !table.Exists(path) {
		r.log.Warn().Str("path", path).Msg("No daily weather table; features will use synthesised weather")
		return nil
	}
	t, err := table.Read(path)
	if err != nil {
		return err
	}
	daily, err := weather.DailyFromTable(t)
	if err != nil {
		return err
	}
	r.weather = weather.NewIndex(daily)
	r.log.Info().Int("rows", len(daily)).Msg("Reusing daily weather")
	return nil
}

func (r *Runner) generateBookings(ctx context.Context) error {
	h := r.cfg.Horizon
	engine := booking.NewEngine(datagen.NewFakerWithSeed(r.cfg.Simulation.Seed), r.cfg.Simulation.VATRate)

	bookings, err := engine.Generate(ctx, booking.Inputs{
		Routes:    r.routes,
		GuideIDs:  dims.GuideIDs(r.guides),
		Days:      calendar.Years(r.days, h.HistoryStartYear, h.HistoryEndYear),
		Divisions: r.divisions,
		Closed:    r.closed,
	})
	if err != nil {
		return err
	}
	r.bookings = bookings
	return write(r.cfg.Paths.Processed(), booking.Table(r.names.Bookings(), bookings))
}

func (r *Runner) buildAggregates() error {
	h := r.cfg.Horizon
	r.routeDays = aggregate.BuildRouteDay(r.bookings, r.days, r.routes)
	r.routeWeeks = aggregate.BuildRouteWeek(r.routeDays, r.days, r.routes, h.HistoryStartYear, h.HistoryEndYear)

	processed := r.cfg.Paths.Processed()
	if err := write(processed, aggregate.RouteDayTable(r.names.RouteDay(), r.routeDays)); err != nil {
		return err
	}
	if err := write(processed, aggregate.RouteWeekTable(r.names.RouteWeek(), r.routeWeeks)); err != nil {
		return err
	}

	r.log.Info().
		Int("route_days", len(r.routeDays)).
		Int("route_weeks", len(r.routeWeeks)).
		Msg("Built aggregates")
	return nil
}

// featureContext is the shared enrichment input for the daily variants.
func (r *Runner) featureContext() features.Context {
	return features.Context{
		Days:      r.days,
		Routes:    r.routes,
		Divisions: r.divisions,
		Closed:    r.closed,
		Weather:   r.weather,
	}
}
