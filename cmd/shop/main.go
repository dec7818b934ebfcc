// Command shop is a terminal storefront client. It exercises the full
// client stack: local cart cache, session manager and sync adapter
// against a running flipmart API.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"flipmart/internal/client/api"
	clientcart "flipmart/internal/client/cart"
	"flipmart/internal/client/localstore"
	"flipmart/internal/client/session"
)

func main() {
	_ = godotenv.Load()

	baseURL := strings.TrimSpace(os.Getenv("FLIPMART_API_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:4000"
	}

	stateDir := strings.TrimSpace(os.Getenv("FLIPMART_STATE_DIR"))
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("[shop] home dir: %v", err)
		}
		stateDir = filepath.Join(home, ".flipmart")
	}

	store, err := localstore.New(stateDir)
	if err != nil {
		log.Fatalf("[shop] local store: %v", err)
	}

	client := api.New(baseURL)
	sessions := session.NewManager(store)
	cache := clientcart.NewCache(store)
	syncer := clientcart.NewSyncer(client, sessions, cache)

	// subscribe before bootstrap so a restored login reconciles too
	sessions.Subscribe(syncer.OnIdentityChange)

	cache.Load()
	sessions.Bootstrap()

	fmt.Println("flipmart shop (type 'help' for commands)")
	repl(client, sessions, cache, syncer)
}

func repl(client *api.Client, sessions *session.Manager, cache *clientcart.Cache, syncer *clientcart.Syncer) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			fmt.Println(`products [category]   list catalog
add|inc|dec|rm <id>   mutate cart
cart                  show cart
clear                 empty cart
register <name> <email> <password>
login <email> <password>
logout / whoami / flush / quit`)

		case "products":
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			products, err := client.ListProducts(ctx, category)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, p := range products {
				fmt.Printf("%-12s %-30s %d\n", p.ID, p.Name, p.Price)
			}

		case "add", "inc", "dec", "rm":
			if len(args) != 1 {
				fmt.Println("usage:", cmd, "<productId>")
				continue
			}
			switch cmd {
			case "add":
				cache.Add(args[0])
			case "inc":
				cache.Increase(args[0])
			case "dec":
				cache.Decrease(args[0])
			case "rm":
				cache.Remove(args[0])
			}

		case "cart":
			lines := cache.Lines()
			if len(lines) == 0 {
				fmt.Println("(empty)")
				continue
			}
			for _, l := range lines {
				fmt.Printf("%-12s x%d\n", l.ProductID, l.Quantity)
			}

		case "clear":
			cache.Clear()

		case "register":
			if len(args) != 3 {
				fmt.Println("usage: register <name> <email> <password>")
				continue
			}
			credential, err := client.Register(ctx, args[0], args[1], args[2])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if err := sessions.Login(credential); err != nil {
				fmt.Println("error:", err)
			}

		case "login":
			if len(args) != 2 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			credential, err := client.Login(ctx, args[0], args[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if err := sessions.Login(credential); err != nil {
				fmt.Println("error:", err)
			}

		case "logout":
			sessions.Logout()

		case "whoami":
			if ident, ok := sessions.Identity(); ok {
				fmt.Printf("%s <%s>\n", ident.Name, ident.Email)
			} else {
				fmt.Println("anonymous")
			}

		case "flush":
			syncer.Flush()

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command (try 'help')")
		}
	}
}
