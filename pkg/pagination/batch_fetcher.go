package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// PageSize requested for every page
	PageSize int
}

// DefaultConfig returns the default batch fetcher configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        10 * time.Second,
		PageSize:       50,
	}
}

// PageFetcher fetches one page of a paginated collection and reports the
// total number of items in the collection.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, pageNumber, pageSize int) (items []T, total int, err error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, pageNumber, pageSize int) ([]T, int, error)

func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, int, error) {
	return f(ctx, pageNumber, pageSize)
}

// PageResult is the outcome of fetching a single page
type PageResult[T any] struct {
	PageNumber int
	Items      []T
	Error      error
}

// BatchFetcher fetches every page of a collection with a worker pool
type BatchFetcher[T any] struct {
	fetcher PageFetcher[T]
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](fetcher PageFetcher[T], config Config) *BatchFetcher[T] {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// TotalPages returns the number of pages needed for total items.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// FetchAll fetches the first page to learn the collection size, then the
// remaining pages in parallel. Items are returned in page order. When a page
// fails the items of every successful page are returned with the error.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()

	firstCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	firstItems, total, err := bf.fetcher.FetchPage(firstCtx, 1, bf.config.PageSize)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	totalPages := TotalPages(total, bf.config.PageSize)
	log.Debug().
		Int("total", total).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	if totalPages == 1 {
		return firstItems, nil
	}

	pages := make([][]T, totalPages+1)
	pages[1] = firstItems

	pageQueue := make(chan int, totalPages)
	pageResults := make(chan PageResult[T], totalPages)

	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	var wg sync.WaitGroup
	for i := 0; i < min(bf.config.MaxConcurrency, totalPages-1); i++ {
		wg.Add(1)
		go bf.worker(ctx, pageQueue, pageResults, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
	}()

	fetchedPages := 1
	var firstErr error
	for result := range pageResults {
		if result.Error != nil {
			log.Warn().
				Err(result.Error).
				Int("page", result.PageNumber).
				Msg("Page fetch failed")
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		pages[result.PageNumber] = result.Items
		fetchedPages++
	}

	items := make([]T, 0, total)
	for _, page := range pages {
		items = append(items, page...)
	}

	if firstErr != nil {
		return items, fmt.Errorf("partial data: %d/%d pages: %w", fetchedPages, totalPages, firstErr)
	}
	if ctx.Err() != nil && fetchedPages < totalPages {
		return items, fmt.Errorf("partial data: %d/%d pages: %w", fetchedPages, totalPages, ctx.Err())
	}

	log.Debug().
		Int("pages", fetchedPages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

// worker processes pages from the queue
func (bf *BatchFetcher[T]) worker(ctx context.Context, pageQueue <-chan int, results chan<- PageResult[T], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for pageNum := range pageQueue {
		select {
		case <-ctx.Done():
			log.Debug().
				Int("worker_id", workerID).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		items, _, err := bf.fetcher.FetchPage(pageCtx, pageNum, bf.config.PageSize)
		cancel()

		results <- PageResult[T]{PageNumber: pageNum, Items: items, Error: err}
	}
}
