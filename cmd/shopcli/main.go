package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/Skotchmaster/thinai_hub/internal/cart"
	"github.com/Skotchmaster/thinai_hub/internal/checkout"
	"github.com/Skotchmaster/thinai_hub/internal/config"
	firestoreinfra "github.com/Skotchmaster/thinai_hub/internal/firestore"
	"github.com/Skotchmaster/thinai_hub/internal/kv"
	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
	"github.com/Skotchmaster/thinai_hub/internal/sheets"
	"github.com/Skotchmaster/thinai_hub/pkg/apiclient"
	pkgdb "github.com/Skotchmaster/thinai_hub/pkg/db"
)

const usage = `usage: shopcli <command> [args]

commands:
  products                      list the catalog
  cart                          show the cart
  add <productId>               add one unit of a product
  qty <line> <delta>            change the quantity of a cart line
  remove <line>                 remove a cart line
  clear                         empty the cart
  checkout -name -email -phone -address -payment
                                place an order for the cart and empty it
  orders                        list orders
  status <orderId> <status>     move an order to a new status
  export                        send all orders to the spreadsheet webhook
`

var errUsage = errors.New("invalid usage")

type app struct {
	cfg    *config.Config
	api    *apiclient.Client
	cart   *cart.Cart
	sink   checkout.Sink
	sheets *sheets.Client
	out    io.Writer

	closers []func() error
}

func main() {
	cfg := config.LoadConfig()
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logger := logging.NewWithWriter(os.Stderr, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	a, err := newApp(ctx, cfg, os.Stdout)
	if err == nil {
		err = a.run(ctx, os.Args[1:])
		a.close()
	}
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	a := &app{cfg: cfg, api: apiclient.NewClient(cfg.APIURL), out: out}

	var storage cart.Storage = cart.NewFileStorage(cfg.CartDir, cfg.CartKey)
	if cfg.CartDB != "" {
		db, err := pkgdb.Open(ctx, pkgdb.DriverSQLite, cfg.CartDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return pkgdb.Close(db) })
		repo, err := kv.NewGormRepo(ctx, db)
		if err != nil {
			a.close()
			return nil, err
		}
		storage = cart.NewSlotStorage(repo, cfg.CartKey)
	}

	c, err := cart.Load(ctx, storage)
	if err != nil {
		a.close()
		return nil, err
	}
	a.cart = c

	a.sink = a.api
	if cfg.OrderSink == config.SinkFirestore {
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, fs.Close)
		a.sink = firestoreinfra.NewOrderSink(fs.Client)
	}

	if cfg.SheetsWebhookURL != "" {
		a.sheets = sheets.NewClient(cfg.SheetsWebhookURL)
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "products":
		return a.products(ctx)
	case "cart":
		a.printCart()
		return nil
	case "add":
		if len(rest) != 1 {
			return errUsage
		}
		return a.add(ctx, rest[0])
	case "qty":
		if len(rest) != 2 {
			return errUsage
		}
		line, err := parseLine(rest[0])
		if err != nil {
			return err
		}
		delta, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("%w: delta %q", errUsage, rest[1])
		}
		if err := a.cart.UpdateQuantity(ctx, line, delta); err != nil {
			return err
		}
		a.printCart()
		return nil
	case "remove":
		if len(rest) != 1 {
			return errUsage
		}
		line, err := parseLine(rest[0])
		if err != nil {
			return err
		}
		if err := a.cart.RemoveItem(ctx, line); err != nil {
			return err
		}
		a.printCart()
		return nil
	case "clear":
		return a.cart.Clear(ctx)
	case "checkout":
		return a.checkout(ctx, rest)
	case "orders":
		return a.orders(ctx)
	case "status":
		if len(rest) != 2 {
			return errUsage
		}
		o, err := a.api.UpdateOrderStatus(ctx, rest[0], models.OrderStatus(rest[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "order %s is now %s\n", o.ID, o.Status)
		return nil
	case "export":
		return a.export(ctx)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// parseLine turns the 1-based line number shown by "cart" into an index.
func parseLine(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: line %q", errUsage, s)
	}
	return n - 1, nil
}

func (a *app) products(ctx context.Context) error {
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tWEIGHT\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Weight, p.Price)
	}
	return tw.Flush()
}

func (a *app) add(ctx context.Context, id string) error {
	p, err := a.api.FindProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := a.cart.AddItem(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s (%d in cart)\n", p.Name, a.cart.Count())
	return nil
}

func (a *app) printCart() {
	if a.cart.Empty() {
		fmt.Fprintln(a.out, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tNAME\tPRICE\tQTY\tTOTAL")
	for i, it := range a.cart.Items() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", i+1, it.Name, it.Price, it.Quantity, it.LineTotal())
	}
	fmt.Fprintf(tw, "\t\t\t%d\t%d\n", a.cart.Count(), a.cart.Subtotal())
	_ = tw.Flush()
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fl := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fl.SetOutput(io.Discard)
	var cust checkout.Customer
	fl.StringVar(&cust.Name, "name", "", "customer name")
	fl.StringVar(&cust.Email, "email", "", "customer email")
	fl.StringVar(&cust.Phone, "phone", "", "customer phone")
	fl.StringVar(&cust.Address, "address", "", "shipping address")
	fl.StringVar(&cust.PaymentMode, "payment", "COD", "payment mode")
	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if cust.Name == "" || cust.Phone == "" || cust.Address == "" {
		return fmt.Errorf("%w: -name, -phone and -address are required", errUsage)
	}

	order, err := checkout.NewSubmitter(a.sink).Submit(ctx, a.cart, cust)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s placed, total %d\n", order.ID, order.Total)
	return a.cart.Clear(ctx)
}

func (a *app) orders(ctx context.Context) error {
	orders, err := a.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCUSTOMER\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.Date, o.CustomerName, o.Total, o.Status)
	}
	return tw.Flush()
}

func (a *app) export(ctx context.Context) error {
	if a.sheets == nil {
		return errors.New("SHEETS_WEBHOOK_URL is not set")
	}
	orders, err := a.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	n, err := a.sheets.Export(ctx, orders)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d orders\n", n)
	return nil
}
