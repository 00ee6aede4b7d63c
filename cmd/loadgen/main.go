// Command loadgen is a throwaway throughput benchmark for the matching
// engine: it submits a configurable stream of random orders against a
// single in-process symbol and reports orders/sec and trades/sec.
// Orders are addressed by the uint64 the book assigns on submit, and
// throughput is measured from MatchResult lengths rather than a trade
// channel, since OrderBook.Submit is synchronous and returns its fills
// directly. Kept on stdlib flag deliberately: a benchmarking tool, not the
// server's config surface.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"limitless-exchange/engine"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to submit")
	priceLevels := flag.Int("price-levels", 200, "unique price levels around the mid, each $1 apart")
	basePrice := flag.Float64("base-price", 100.0, "mid price used for randomization")
	symbol := flag.String("symbol", "SIM", "symbol to trade")
	cancelEvery := flag.Int("cancel-every", 0, "cancel a random prior order every N submissions")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	marketRatio := flag.Int("market-ratio", 5, "1 in N orders will be market instead of limit")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	eng := engine.NewMatchingEngine()
	if _, err := eng.AddSymbol(*symbol); err != nil {
		panic(err)
	}

	restingIDs := make([]uint64, 0, *totalOrders)
	var trades int64

	start := time.Now()
	for i := 0; i < *totalOrders; i++ {
		side, typ, price, qty := nextRandomOrder(rng, *basePrice, *priceLevels, *marketRatio)

		id, result, err := eng.SubmitOrder(*symbol, side, typ, price, qty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
			continue
		}
		trades += int64(len(result)) / 2
		if typ == engine.Limit {
			restingIDs = append(restingIDs, id)
		}

		if *cancelEvery > 0 && i > 0 && i%*cancelEvery == 0 && len(restingIDs) > 0 {
			target := restingIDs[rng.Intn(len(restingIDs))]
			_, _ = eng.Cancel(*symbol, target)
		}
	}
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	ordersPerSec := float64(*totalOrders) / elapsed.Seconds()
	tradesPerSec := float64(trades) / elapsed.Seconds()

	fmt.Printf("submitted %d orders in %s (%.0f orders/s)\n", *totalOrders, elapsed.Truncate(time.Millisecond), ordersPerSec)
	fmt.Printf("matched %d trades (%.0f trades/s)\n", trades, tradesPerSec)
	fmt.Printf("config: symbol=%s price-levels=%d market-ratio=1/%d\n", *symbol, *priceLevels, *marketRatio)
}

func nextRandomOrder(rng *rand.Rand, mid float64, width int, marketRatio int) (engine.Side, engine.OrderType, float64, uint32) {
	side := engine.Side(rng.Intn(2))

	offset := float64(rng.Intn(width))
	price := mid - float64(width)/2 + offset
	if price <= 0 {
		price = 1
	}

	typ := engine.Limit
	if marketRatio > 0 && rng.Intn(marketRatio) == 0 {
		typ = engine.Market
	}

	qty := uint32(rng.Intn(5) + 1)

	return side, typ, price, qty
}
