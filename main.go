package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/slask-discovery/pkg/common"
	"github.com/matst80/slask-discovery/pkg/discovery"
	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/facet"
	"github.com/matst80/slask-discovery/pkg/state"
	"github.com/matst80/slask-discovery/pkg/tracking"
	"github.com/matst80/slask-discovery/pkg/transport"
)

var searchUrl = os.Getenv("SEARCH_URL")
var meiliHost = os.Getenv("MEILI_HOST")
var meiliKey = os.Getenv("MEILI_KEY")
var meiliIndex = getEnv("MEILI_INDEX", "courses")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var rabbitUrl = os.Getenv("RABBIT_URL")
var facetFields = getEnv("FACETS", "org,subject,language,course_type")

var view = flag.String("view", getEnv("VIEW", "all"), "listing view: videos, courses or all")
var pageSize = flag.Int("size", envInt("PAGE_SIZE", transport.DefaultPageSize), "results per page")
var metricsAddress = flag.String("metrics", ":8081", "address serving prometheus metrics, empty to disable")
var pageUrl = flag.String("url", "", "discovery page url whose query seeds the first search")
var cacheTtl = flag.Duration("cache-ttl", 5*time.Minute, "ttl of cached result pages")

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func makeFetcher(timeouts common.TimeoutConfig) (state.Fetcher, []common.ShutdownHook) {
	var fetcher transport.Fetcher
	if meiliHost != "" {
		log.Printf("searching meilisearch index %s at %s", meiliIndex, meiliHost)
		client := meilisearch.New(meiliHost, meilisearch.WithAPIKey(meiliKey))
		fetcher = transport.NewMeilisearchTransport(client, meiliIndex, splitList(facetFields), *pageSize)
	} else {
		log.Printf("searching %s", searchUrl)
		fetcher = transport.NewHTTPTransport(searchUrl, *pageSize, timeouts.Search)
	}
	if redisUrl == "" {
		return fetcher, nil
	}
	log.Printf("Caching result pages in redis, url: %s", redisUrl)
	cached := transport.NewCachedTransport(fetcher, transport.NewRedisClient(redisUrl, redisPassword, 0), *cacheTtl)
	return cached, []common.ShutdownHook{func(context.Context) error {
		return cached.Close()
	}}
}

func splitList(value string) []string {
	ret := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ret = append(ret, part)
		}
	}
	return ret
}

func main() {
	flag.Parse()
	if searchUrl == "" && meiliHost == "" {
		log.Fatalf("No search backend provided, set SEARCH_URL or MEILI_HOST")
	}
	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		Search:     10 * time.Second,
		ReadHeader: 5 * time.Second,
		Idle:       time.Minute,
		Shutdown:   10 * time.Second,
		Hook:       5 * time.Second,
	})
	fetcher, hooks := makeFetcher(timeouts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	searchState := state.NewSearchState(fetcher, bus, state.Config{
		FacetFields: splitList(facetFields),
		Predicate:   facet.ForView(*view),
	})
	console := newConsoleViews(os.Stdout)
	coordinator := discovery.NewCoordinator(bus, searchState, console.Views())
	coordinator.Start(ctx)
	defer coordinator.Stop()

	if rabbitUrl != "" {
		tracker, err := tracking.NewRabbitTracking(rabbitUrl)
		if err != nil {
			log.Printf("Failed to connect tracking to RabbitMQ, %v", err)
		} else {
			tracker.Attach(bus, searchState)
			hooks = append(hooks, func(context.Context) error {
				return tracker.Close()
			})
		}
	}

	var metricsServer *http.Server
	if *metricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = common.NewServer(*metricsAddress, mux, timeouts)
		common.StartServer(metricsServer, "metrics")
	}

	values := url.Values{}
	if *pageUrl != "" {
		if parsed, err := url.Parse(*pageUrl); err == nil {
			values = parsed.Query()
		} else {
			log.Printf("ignoring invalid page url: %v", err)
		}
	}
	coordinator.Bootstrap(values)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || !runCommand(coordinator, console, line) {
				break loop
			}
		}
	}
	common.Shutdown(metricsServer, timeouts, hooks...)
}
