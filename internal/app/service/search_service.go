// Package service provides application use cases.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"product-search-service/internal/app/search"
	"product-search-service/internal/domain"
)

// Strategy selects which engine executes a search.
type Strategy string

const (
	// StrategyAuto uses storage when every filter can be pushed down.
	StrategyAuto Strategy = "auto"
	// StrategyInProcess always filters and sorts in memory.
	StrategyInProcess Strategy = "in_process"
	// StrategyStorage prefers storage, falling back when a plan is not pushable.
	StrategyStorage Strategy = "storage"
)

// ParseStrategy validates a configured strategy name. Empty means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyInProcess:
		return StrategyInProcess, nil
	case StrategyStorage:
		return StrategyStorage, nil
	default:
		return "", fmt.Errorf("unknown search strategy %q", s)
	}
}

// SearchOptions configures SearchService.
type SearchOptions struct {
	Strategy     Strategy
	FetchTimeout time.Duration
}

// SearchService compiles search requests and dispatches them to an engine.
type SearchService struct {
	inProcess    search.Engine
	storage      search.Engine
	strategy     Strategy
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewSearchService creates a new SearchService over repo.
func NewSearchService(repo domain.ProductRepository, opts SearchOptions, logger *zap.Logger) *SearchService {
	if opts.Strategy == "" {
		opts.Strategy = StrategyAuto
	}

	return &SearchService{
		inProcess:    search.NewInProcessEngine(repo),
		storage:      search.NewStorageEngine(repo),
		strategy:     opts.Strategy,
		fetchTimeout: opts.FetchTimeout,
		logger:       logger,
	}
}

// Search runs the filter, sort and paginate pipeline for req.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.Page[*domain.Product], error) {
	plan, err := search.Compile(req)
	if err != nil {
		searchRequestsTotal.WithLabelValues("none", outcome(err)).Inc()
		s.logger.Debug("search rejected", zap.String("query", req.Query), zap.Error(err))
		return nil, err
	}

	engine := s.engineFor(plan)

	s.logger.Debug("searching products",
		zap.String("query", req.Query),
		zap.Int("filters", len(req.Filters)),
		zap.String("engine", engine.Name()),
		zap.Int("page", req.Page.PageNumber),
		zap.Int("page_size", req.Page.PageSize),
	)

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	page, err := engine.Execute(ctx, plan)
	searchDuration.WithLabelValues(engine.Name()).Observe(time.Since(start).Seconds())
	searchRequestsTotal.WithLabelValues(engine.Name(), outcome(err)).Inc()

	if err != nil {
		if outcome(err) == "upstream_unavailable" {
			s.logger.Error("search failed", zap.String("engine", engine.Name()), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Debug("search completed",
		zap.Int64("total", page.TotalElements),
		zap.Int("count", len(page.Content)),
	)

	return page, nil
}

// engineFor picks the engine for plan according to the configured strategy.
func (s *SearchService) engineFor(plan *search.Plan) search.Engine {
	switch s.strategy {
	case StrategyInProcess:
		return s.inProcess
	default:
		if s.storage.Supports(plan) {
			return s.storage
		}
		return s.inProcess
	}
}

// SortingAttributePrice is the only attribute the simple search can sort by.
const SortingAttributePrice = "price"

// SimpleSearchRequest is the flat parameter form of a category search.
type SimpleSearchRequest struct {
	Query            string
	CategoryID       uint64
	SortingAttribute string
	Page             domain.PageRequest
}

// SimpleSearch searches one category, optionally ordered by descending
// price. It runs through the same engines as Search.
func (s *SearchService) SimpleSearch(ctx context.Context, req SimpleSearchRequest) (*domain.Page[*domain.Product], error) {
	if req.CategoryID == 0 {
		return nil, domain.InvalidArgumentf("category id is required")
	}

	var sort *domain.SortCriterion
	switch strings.ToLower(strings.TrimSpace(req.SortingAttribute)) {
	case "":
	case SortingAttributePrice:
		c := domain.SortPriceHighToLow
		sort = &c
	default:
		return nil, domain.InvalidArgumentf("unsupported sorting attribute %q", req.SortingAttribute)
	}

	return s.Search(ctx, domain.SearchRequest{
		Query: req.Query,
		Filters: []domain.FilterSpec{
			{Key: search.FilterCategory, Values: []string{fmt.Sprint(req.CategoryID)}},
		},
		Sort: sort,
		Page: req.Page,
	})
}
