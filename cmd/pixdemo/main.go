// Command pixdemo installs encoded images behind caching pixel references
// and reports how often they are decoded.
//
// Usage:
//
//	pixdemo [-cache sharded|lru|arc] [-budget bytes] [-cycles n] [-refs n] [-format text|yaml] files...
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pixref"
	"github.com/gogpu/pixref/bitmapcache"
)

func main() {
	var (
		kind    = flag.String("cache", "sharded", "store: sharded, lru or arc")
		budget  = flag.Int64("budget", bitmapcache.DefaultBudget, "byte budget of the sharded store")
		entries = flag.Int("entries", 256, "entry budget of the lru and arc stores")
		cycles  = flag.Int("cycles", 8, "lock/unlock cycles per reference")
		refs    = flag.Int("refs", 2, "references per file sharing one generation ID")
		format  = flag.String("format", "text", "report format: text or yaml")
		verbose = flag.Bool("v", false, "log cache activity to stderr")
	)
	flag.Parse()

	if flag.NArg() == 0 || *refs < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		pixref.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	store, err := newStore(*kind, *budget, *entries)
	if err != nil {
		log.Fatal(err)
	}
	bitmapcache.SetDefault(store)

	rep := report{Store: *kind}
	rep.Files = make([]fileResult, flag.NArg())
	var g errgroup.Group
	for i, name := range flag.Args() {
		g.Go(func() error {
			r, err := run(name, *refs, *cycles)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			rep.Files[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("%+v", err)
	}
	rep.Stats = store.Stats()

	if err := rep.write(os.Stdout, *format); err != nil {
		log.Fatalf("%+v", err)
	}
}

func newStore(kind string, budget int64, entries int) (bitmapcache.Store, error) {
	switch kind {
	case "sharded":
		return bitmapcache.NewSharded(budget), nil
	case "lru":
		return bitmapcache.NewLRU(entries)
	case "arc":
		return bitmapcache.NewARC(entries)
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
