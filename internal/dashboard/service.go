// Package dashboard is the action boundary of the app: it validates user
// input, calls the provider and the pipeline, and overwrites session slots.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/performance"
	"github.com/lucasrodor/projeto-financeiro/internal/portfolio"
	"github.com/lucasrodor/projeto-financeiro/internal/selection"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
	"github.com/lucasrodor/projeto-financeiro/internal/strategyconfig"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
	"github.com/lucasrodor/projeto-financeiro/pkg/redis"
)

// Provider is the market data provider (see labfin.Client)
type Provider interface {
	FetchScreening(ctx context.Context, baseDate time.Time) ([]contracts.StockRow, error)
	FetchPrices(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PricePoint, error)
	FetchBenchmark(ctx context.Context, start, end time.Time) ([]contracts.PricePoint, error)
	Benchmark() string
}

// History stores generated portfolios (see portfolio.Repository)
type History interface {
	Save(ctx context.Context, sessionID string, p *contracts.Portfolio) (string, error)
	List(ctx context.Context, limit int) ([]portfolio.Summary, error)
}

// Deps are the service collaborators. Cache and History are optional.
type Deps struct {
	Provider Provider
	Strategy *strategyconfig.Config
	Cache    *redis.Cache
	History  History
	Logger   *logger.Logger
}

// PortfolioRequest is the "gerar carteira" form
type PortfolioRequest struct {
	BaseDate      time.Time
	Profitability string
	Valuation     string
	Size          int
	Sectors       []string
}

// Service runs the dashboard actions
// ⭐ SSOT: validação + orquestração das ações só aqui
type Service struct {
	provider Provider
	strategy *strategyconfig.Config
	calendar *calendar.Calendar
	cache    *redis.Cache
	history  History
	ranker   *selection.Ranker
	builder  *performance.Builder
	logger   *logger.Logger
	now      func() time.Time
}

// NewService wires the service
func NewService(deps Deps) *Service {
	strategy := deps.Strategy
	if strategy == nil {
		strategy = strategyconfig.Default()
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	prices := &cachedPrices{provider: deps.Provider, cache: deps.Cache, logger: log}

	return &Service{
		provider: deps.Provider,
		strategy: strategy,
		calendar: calendar.New(strategy.HolidayDates()),
		cache:    deps.Cache,
		history:  deps.History,
		ranker:   selection.NewRanker(strategy.Ranking.Order, log),
		builder:  performance.NewBuilder(prices, strategy.Benchmark.Ticker, log),
		logger:   log,
		now:      time.Now,
	}
}

// Strategy returns the active strategy config
func (s *Service) Strategy() *strategyconfig.Config {
	return s.strategy
}

// Calendar returns the business-day calendar
func (s *Service) Calendar() *calendar.Calendar {
	return s.calendar
}

// HistoryEnabled reports whether portfolios are persisted
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// LoadScreening fetches the deduplicated planilhão of baseDate, optionally
// filtered by sector, and stores it in the session
func (s *Service) LoadScreening(ctx context.Context, sess *session.Session, baseDate time.Time, sectors []string) (*contracts.ScreeningTable, error) {
	if err := s.calendar.ValidateBaseDate(baseDate); err != nil {
		return nil, err
	}
	if err := s.validateSectors(sectors); err != nil {
		return nil, err
	}

	rows, err := s.screening(ctx, baseDate)
	if err != nil {
		return nil, err
	}

	rows = selection.FilterSectors(rows, sectors)
	if len(rows) == 0 {
		return nil, ErrEmptyResult
	}

	table := &contracts.ScreeningTable{
		BaseDate: baseDate,
		Sectors:  sectors,
		Rows:     rows,
	}
	sess.Screening = table

	s.logger.WithSession(sess.ID).WithFields(map[string]interface{}{
		"data_base": baseDate.Format(contracts.DateFormat),
		"sectors":   len(sectors),
		"rows":      len(rows),
	}).Info("Screening loaded")

	return table, nil
}

// BuildPortfolio ranks the planilhão of req.BaseDate and stores the top
// req.Size rows in the session (and in the history when enabled)
func (s *Service) BuildPortfolio(ctx context.Context, sess *session.Session, req PortfolioRequest) (*contracts.Portfolio, error) {
	if err := s.validatePortfolio(req); err != nil {
		return nil, err
	}

	rows, err := s.screening(ctx, req.BaseDate)
	if err != nil {
		return nil, err
	}

	ranked, err := s.ranker.Rank(ctx, rows, selection.RankRequest{
		Profitability: req.Profitability,
		Valuation:     req.Valuation,
		Size:          req.Size,
		Sectors:       req.Sectors,
	})
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrEmptyResult
	}

	p := &contracts.Portfolio{
		BaseDate:      req.BaseDate,
		Profitability: req.Profitability,
		Valuation:     req.Valuation,
		Size:          req.Size,
		Order:         s.ranker.Order(),
		Rows:          ranked,
		CreatedAt:     s.now(),
	}
	sess.Portfolio = p
	// o gráfico anterior pertence à carteira substituída
	sess.Chart = nil

	log := s.logger.WithSession(sess.ID)
	if s.history != nil {
		if id, err := s.history.Save(ctx, sess.ID, p); err != nil {
			log.WithError(err).Warn("Failed to save portfolio history")
		} else {
			log.WithField("portfolio_id", id).Debug("Portfolio saved to history")
		}
	}

	log.WithFields(map[string]interface{}{
		"data_base":     req.BaseDate.Format(contracts.DateFormat),
		"profitability": req.Profitability,
		"valuation":     req.Valuation,
		"size":          len(ranked),
	}).Info("Portfolio generated")

	return p, nil
}

// BuildChart computes the cumulative return of the session portfolio against
// the benchmark over [start, end] and stores it in the session
func (s *Service) BuildChart(ctx context.Context, sess *session.Session, start, end time.Time, progress performance.Progress) (*contracts.ReturnSeries, error) {
	if err := s.calendar.ValidateRange(start, end); err != nil {
		return nil, err
	}
	if sess.Portfolio == nil || sess.Portfolio.Count() == 0 {
		return nil, ErrNoPortfolio
	}

	series, err := s.builder.Build(ctx, sess.Portfolio.Tickers(), start, end, progress)
	if errors.Is(err, performance.ErrNoOverlap) {
		return nil, ErrEmptyResult
	}
	if err != nil {
		return nil, err
	}
	if series.Empty() {
		return nil, ErrEmptyResult
	}

	sess.Chart = series

	last, _ := series.Last()
	s.logger.WithSession(sess.ID).WithFields(map[string]interface{}{
		"data_ini":  start.Format(contracts.DateFormat),
		"data_fim":  end.Format(contracts.DateFormat),
		"points":    len(series.Points),
		"carteira":  last.Portfolio,
		"benchmark": last.Benchmark,
	}).Info("Chart generated")

	return series, nil
}

// History lists saved portfolios
func (s *Service) History(ctx context.Context, limit int) ([]portfolio.Summary, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.List(ctx, limit)
}

// WarmScreening fetches the planilhão of the latest business day on or
// before the current date into the cache and returns the row count
func (s *Service) WarmScreening(ctx context.Context) (time.Time, int, error) {
	today := s.now()
	date := s.calendar.PreviousBusinessDay(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC))

	rows, err := s.screening(ctx, date)
	if err != nil {
		return date, 0, err
	}
	return date, len(rows), nil
}

// DefaultChartRange returns the chart form defaults; an empty chart_end means
// the last business day before today
func (s *Service) DefaultChartRange() (time.Time, time.Time) {
	start, _ := time.Parse(contracts.DateFormat, s.strategy.Defaults.ChartStart)

	var end time.Time
	if s.strategy.Defaults.ChartEnd != "" {
		end, _ = time.Parse(contracts.DateFormat, s.strategy.Defaults.ChartEnd)
	} else {
		today := s.now()
		yesterday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		end = s.calendar.PreviousBusinessDay(yesterday)
	}
	return start, end
}

// DefaultBaseDate returns the base date form default
func (s *Service) DefaultBaseDate() time.Time {
	d, _ := time.Parse(contracts.DateFormat, s.strategy.Defaults.BaseDate)
	return d
}

// screening returns the deduplicated planilhão of a date, through the cache
func (s *Service) screening(ctx context.Context, baseDate time.Time) ([]contracts.StockRow, error) {
	key := redis.ScreeningKey(baseDate.Format(contracts.DateFormat))

	var rows []contracts.StockRow
	found, err := s.cache.Get(ctx, key, &rows)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Screening cache read failed")
	}
	if !found {
		rows, err = s.provider.FetchScreening(ctx, baseDate)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch screening: %w", err)
		}
		if len(rows) > 0 {
			if err := s.cache.Set(ctx, key, rows, redis.TTLDaily); err != nil {
				s.logger.WithError(err).WithField("key", key).Warn("Screening cache write failed")
			}
		}
	}

	return selection.Deduplicate(rows), nil
}

func (s *Service) validatePortfolio(req PortfolioRequest) error {
	if err := s.calendar.ValidateBaseDate(req.BaseDate); err != nil {
		return err
	}
	if !s.strategy.Indicators.AllowsProfitability(req.Profitability) {
		return calendar.Invalid("indicador_rentabilidade", "must be one of %s", strings.Join(s.strategy.Indicators.Profitability, ", "))
	}
	if !s.strategy.Indicators.AllowsValuation(req.Valuation) {
		return calendar.Invalid("indicador_desconto", "must be one of %s", strings.Join(s.strategy.Indicators.Valuation, ", "))
	}
	if req.Size < 1 || req.Size > s.strategy.Portfolio.MaxSize {
		return calendar.Invalid("quantidade_acoes", "must be between 1 and %d", s.strategy.Portfolio.MaxSize)
	}
	return s.validateSectors(req.Sectors)
}

func (s *Service) validateSectors(sectors []string) error {
	for _, sector := range sectors {
		if !containsFold(s.strategy.Sectors, sector) {
			return calendar.Invalid("setores", "unknown sector %q", sector)
		}
	}
	return nil
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
