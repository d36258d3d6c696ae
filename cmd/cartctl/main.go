// Command cartctl is a terminal storefront: it browses the catalog through the
// API and keeps the shopper's cart in local storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/client"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/models"
)

const usage = `usage: cartctl [flags] <command> [args]

commands:
  products                  list the catalog
  add <product-id>          add one unit to the cart
  remove <product-id>       remove a product line from the cart
  clear                     empty the cart
  show                      print the cart and its total
  watch                     print the cart whenever another client changes it (requires -redis)
  register <name> <email> <password>
  login <email> <password>
`

func main() {
	apiURL := flag.String("api", "http://localhost:5000", "storefront API base URL")
	dir := flag.String("dir", defaultDir(), "directory holding the local cart")
	redisAddr := flag.String("redis", "", "share the cart through Redis at this address instead of -dir")
	shopper := flag.String("shopper", "default", "cart namespace when -redis is set")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage); flag.PrintDefaults() }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logging.New("warn")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	var (
		storage cart.Storage
		watcher cart.Watcher
	)
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Unable to reach redis: %v", err)
		}
		rs := cart.NewRedisStorage(rdb, *shopper)
		storage, watcher = rs, rs
	} else {
		fs, err := cart.NewFileStorage(*dir)
		if err != nil {
			log.Fatalf("Failed to open cart storage: %v", err)
		}
		storage = fs
	}

	notifier := cart.NotifierFunc(func(message string, level cart.Level) {
		fmt.Printf("[%s] %s\n", level, message)
	})
	controller := cart.NewController(storage, events.NewInMemoryDispatcher(), notifier, logger)
	controller.OnChange(func(items []models.CartItem) {
		fmt.Printf("cart: %d item(s), total %.2f\n", cart.Count(items), cart.Total(items))
	})

	api := client.New(*apiURL, 10*time.Second)
	if err := run(controller, watcher, api, flag.Args()); err != nil {
		logger.Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(controller *cart.Controller, watcher cart.Watcher, api *client.Client, args []string) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "products":
		products, err := api.Products()
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%-6s %-32s %8.2f\n", p.ID, p.Name, p.Price)
		}
		return nil

	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("add takes exactly one product id")
		}
		product, err := api.Product(rest[0])
		if err != nil {
			return err
		}
		return controller.Add(*product)

	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("remove takes exactly one product id")
		}
		return controller.Remove(rest[0])

	case "clear":
		return controller.Clear()

	case "show":
		items := controller.Cart()
		if len(items) == 0 {
			fmt.Println("Your cart is empty.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%-6s %-32s %3d x %8.2f\n", item.ID, item.Name, item.Quantity, item.Price)
		}
		fmt.Printf("total: %.2f\n", cart.Total(items))
		return nil

	case "watch":
		if watcher == nil {
			return fmt.Errorf("watch requires -redis")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := controller.Follow(ctx, watcher); err != nil && ctx.Err() == nil {
			return err
		}
		return nil

	case "register":
		if len(rest) != 3 {
			return fmt.Errorf("register takes <name> <email> <password>")
		}
		s, err := api.Register(rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		fmt.Printf("%s\nuser id: %s\ntoken: %s\n", s.Message, s.User.ID, s.Token)
		return nil

	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("login takes <email> <password>")
		}
		s, err := api.Login(rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s\nuser id: %s\ntoken: %s\n", s.Message, s.User.ID, s.Token)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}
