// Command seed-db applies the schema and loads the product catalog from a
// JSON file (optionally gzip-compressed) into the database.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/easygroceries/grocery-api/internal/repository"
)

const upsertProductSQL = `
INSERT INTO products (product_name, product_desc, price, is_physical, is_active)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT (product_name) DO UPDATE
SET product_desc = EXCLUDED.product_desc,
    price        = EXCLUDED.price,
    is_physical  = EXCLUDED.is_physical,
    is_active    = TRUE
`

type seedProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	IsPhysical  bool
}

func main() {
	var (
		databaseURL  string
		productsFile string
		workers      int
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.IntVar(&workers, "workers", 4, "concurrent upsert workers")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, workers); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string, workers int) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products, err := readProducts(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products")
	}

	return seedProducts(ctx, pool, products, workers)
}

// readProducts streams the products file, transparently decompressing when
// the path ends in .gz.
func readProducts(path string) ([]seedProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	return decodeProducts(r)
}

func decodeProducts(r io.Reader) ([]seedProduct, error) {
	var products []seedProduct

	d := jx.Decode(r, 4096)
	if err := d.Arr(func(d *jx.Decoder) error {
		var p seedProduct
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "name":
				v, err := d.Str()
				p.Name = v
				return err
			case "description":
				v, err := d.Str()
				p.Description = v
				return err
			case "price":
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Price, err = decimal.NewFromString(v)
				return err
			case "isPhysical":
				v, err := d.Bool()
				p.IsPhysical = v
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		if p.Name == "" {
			return errors.New("product name is required")
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}

	return products, nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []seedProduct, workers int) error {
	slog.Info("upserting products", slog.Int("count", len(products)), slog.Int("workers", workers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, p := range products {
		g.Go(func() error {
			if _, err := pool.Exec(ctx, upsertProductSQL,
				p.Name, p.Description, p.Price, p.IsPhysical,
			); err != nil {
				return errors.Wrapf(err, "upsert product %q", p.Name)
			}
			slog.Info("upserted product", slog.String("name", p.Name))
			return nil
		})
	}

	return g.Wait()
}
