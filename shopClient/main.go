package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/pkg/cache"
	"gitlab.connectwisedev.com/serverless-shop/pkg/catalog"
	"gitlab.connectwisedev.com/serverless-shop/pkg/config"
	"gitlab.connectwisedev.com/serverless-shop/pkg/logging"
	"gitlab.connectwisedev.com/serverless-shop/pkg/query"
	"gitlab.connectwisedev.com/serverless-shop/pkg/remotesync"
	"gitlab.connectwisedev.com/serverless-shop/pkg/shop"
	"gitlab.connectwisedev.com/serverless-shop/pkg/store"
	"gitlab.connectwisedev.com/serverless-shop/pkg/view"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		return
	}

	if _, err := config.LoadEnv(); err != nil {
		log.Printf("Warning: %v. Assuming environment variables are set.", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flushLogs, err := logging.Init(logging.Options{Development: cfg.IsLocal(), Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, os.Args[1:], os.Stdout)
	stop()
	flushLogs()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore returns the configured backend and a function releasing it.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), func() {}, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(rc.GetClient()), rc.Close, nil
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	command := strings.ToLower(args[0])
	args = args[1:]

	s, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	client := remotesync.NewClient(remotesync.Config{BaseURL: cfg.APIBaseURL})
	session := shop.NewSession(catalog.NewRepository(s), remotesync.NewSyncer(client), client)
	if err := session.Load(ctx); err != nil {
		// the seed list is in place, keep going
		zap.S().Warnf("Failed to load saved items: %v", err)
	}

	switch command {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		search := fs.String("search", "", "case-insensitive filter on title, description and tag")
		sortKey := fs.String("sort", string(query.SortNewest), "newest | oldest | title-asc | title-desc")
		if err := fs.Parse(args); err != nil {
			return err
		}
		key, ok := query.ParseSortKey(*sortKey)
		if !ok {
			return fmt.Errorf("unknown sort key %q", *sortKey)
		}
		session.SetSearch(*search)
		session.SetSort(key)
		_, err := session.Catalog().WriteTo(out)
		return err

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		in := recordFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		rec, err := session.Add(ctx, in.input(fs))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n%s\n", session.Status(), rec.ID)
		return nil

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		id := fs.String("id", "", "id of the item to edit")
		in := recordFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if _, err := session.Edit(ctx, *id, in.input(fs)); err != nil {
			return err
		}
		fmt.Fprintln(out, session.Status())
		return nil

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ContinueOnError)
		id := fs.String("id", "", "id of the item to delete")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := session.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(out, session.Status())
		return nil

	case "reset":
		if err := session.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, session.Status())
		return nil

	case "fetch":
		fmt.Fprintln(out, view.StatusFetching)
		if err := session.Fetch(ctx); err != nil {
			fmt.Fprintln(out, session.Status())
			return err
		}
		fmt.Fprintln(out, session.Status())
		fmt.Fprintln(out, "\nProducts")
		if _, err := session.Products().WriteTo(out); err != nil {
			return err
		}
		fmt.Fprintln(out, "\nOrders")
		_, err := session.Orders().WriteTo(out)
		return err

	case "order":
		fs := flag.NewFlagSet("order", flag.ContinueOnError)
		product := fs.String("product", "", "remote product id")
		quantity := fs.Int("quantity", 1, "units to order")
		if err := fs.Parse(args); err != nil {
			return err
		}
		conf, err := session.PlaceOrder(ctx, *product, *quantity)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s x%d)\n", session.Status(), conf.ProductID, conf.Quantity)
		return nil

	case "help":
		printUsage(out)
		return nil
	}

	printUsage(out)
	return errors.New("unknown command: " + command)
}

type recordValues struct {
	title, description, price, tag, image *string
}

func recordFlags(fs *flag.FlagSet) *recordValues {
	return &recordValues{
		title:       fs.String("title", "", "title (required)"),
		description: fs.String("description", "", "description"),
		price:       fs.String("price", "", "price; invalid or negative values become 0"),
		tag:         fs.String("tag", "", "tag"),
		image:       fs.String("image", "", "image path or URL"),
	}
}

// input keeps only the flags given on the command line, so edit leaves the
// other fields untouched.
func (v *recordValues) input(fs *flag.FlagSet) catalog.RecordInput {
	var in catalog.RecordInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = v.title
		case "description":
			in.Description = v.description
		case "price":
			in.Price = v.price
		case "tag":
			in.Tag = v.tag
		case "image":
			in.Image = v.image
		}
	})
	return in
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Serverless shop client")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  shopclient list [-search text] [-sort newest|oldest|title-asc|title-desc]")
	fmt.Fprintln(w, "  shopclient add -title T [-description D] [-price P] [-tag T] [-image URL]")
	fmt.Fprintln(w, "  shopclient edit -id ID [-title T] [-description D] [-price P] [-tag T] [-image URL]")
	fmt.Fprintln(w, "  shopclient delete -id ID")
	fmt.Fprintln(w, "  shopclient reset")
	fmt.Fprintln(w, "  shopclient fetch")
	fmt.Fprintln(w, "  shopclient order -product ID [-quantity N]")
	fmt.Fprintln(w, "\nEnvironment Variables:")
	fmt.Fprintln(w, "  SHOP_API_BASE_URL     Base URL of the shop API")
	fmt.Fprintln(w, "  SHOP_STORE_BACKEND    file (default), redis or memory")
	fmt.Fprintln(w, "  SHOP_DATA_DIR         Directory of the file store (default: ./data)")
	fmt.Fprintln(w, "  REDIS_ADDR            Redis address for the redis backend")
}
