package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pratoexpress/delivery/internal/cart"
	"github.com/pratoexpress/delivery/internal/client"
	"github.com/pratoexpress/delivery/internal/payment"
	"github.com/pratoexpress/delivery/pkg/models"
)

func main() {
	baseURL := os.Getenv("DELIVERY_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot determine home directory:", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(home, ".delivery-app")

	c := client.New(baseURL)
	if token, err := os.ReadFile(filepath.Join(stateDir, "token")); err == nil {
		c.SetToken(strings.TrimSpace(string(token)))
	}

	basket, err := cart.New(cart.NewFileStorage(filepath.Join(stateDir, "cart.json")), cart.DefaultConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load cart:", err)
		os.Exit(1)
	}

	app := &app{client: c, cart: basket, stateDir: stateDir, in: bufio.NewScanner(os.Stdin)}
	app.run()
}

type app struct {
	client   *client.Client
	cart     *cart.Cart
	stateDir string
	in       *bufio.Scanner
}

func (a *app) run() {
	fmt.Println("Delivery App — type 'help' for commands")
	for {
		fmt.Print("> ")
		if !a.in.Scan() {
			return
		}
		fields := strings.Fields(a.in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		var err error
		switch cmd {
		case "help":
			a.help()
		case "register":
			err = a.register()
		case "login":
			err = a.login()
		case "whoami":
			err = a.whoami()
		case "menu":
			err = a.menu(args)
		case "add":
			err = a.add(args)
		case "dec":
			err = a.withProductID(args, a.cart.Decrement)
		case "rm":
			err = a.withProductID(args, a.cart.Remove)
		case "cart":
			a.showCart()
		case "clear":
			err = a.cart.Clear()
		case "checkout":
			err = a.checkout()
		case "orders":
			err = a.orders()
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command; type 'help'")
		}
		if err != nil {
			fmt.Println("error:", err)
		}
	}
}

func (a *app) help() {
	fmt.Println(`commands:
  register             create an account
  login                sign in
  whoami               show the signed-in user
  menu [category]      list products
  add <product-id>     add one unit to the cart
  dec <product-id>     lower a line's quantity (never below 1)
  rm <product-id>      remove a line entirely
  cart                 show the cart with totals
  clear                empty the cart
  checkout             place the order
  orders               show order history
  quit                 leave`)
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) register() error {
	name := a.prompt("name: ")
	email := a.prompt("email: ")
	password := a.prompt("password: ")

	user, err := a.client.Register(name, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (id %d); now log in\n", user.Email, user.ID)
	return nil
}

func (a *app) login() error {
	email := a.prompt("email: ")
	password := a.prompt("password: ")

	resp, err := a.client.Login(email, password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.stateDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(a.stateDir, "token"), []byte(resp.Token), 0o600); err != nil {
		return err
	}
	userData, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(a.stateDir, "user.json"), userData, 0o600); err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", resp.User.Name)
	return nil
}

// whoami checks the token against the API and prints the user saved at
// login time.
func (a *app) whoami() error {
	userID, err := a.client.Profile()
	if err != nil {
		return err
	}

	var user models.User
	if data, err := os.ReadFile(filepath.Join(a.stateDir, "user.json")); err == nil {
		if err := json.Unmarshal(data, &user); err == nil && user.Name != "" {
			fmt.Printf("%s <%s> (id %d)\n", user.Name, user.Email, userID)
			return nil
		}
	}
	fmt.Printf("user id %d\n", userID)
	return nil
}

func (a *app) menu(args []string) error {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	products, err := a.client.Products(category)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%3d  %-30s R$ %.2f  [%s]\n", p.ID, p.Name, p.Price, p.Category)
	}
	return nil
}

func (a *app) add(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add <product-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id")
	}
	product, err := a.client.Product(id)
	if err != nil {
		return err
	}
	if err := a.cart.Add(*product); err != nil {
		return err
	}
	fmt.Printf("added %s\n", product.Name)
	return nil
}

func (a *app) withProductID(args []string, fn func(int) error) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: <command> <product-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id")
	}
	return fn(id)
}

func (a *app) showCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("%3dx %-30s R$ %.2f\n", item.Quantity, item.Product.Name,
			item.Product.Price*float64(item.Quantity))
	}
	fmt.Printf("subtotal:     R$ %.2f\n", a.cart.Subtotal())
	fmt.Printf("delivery fee: R$ %.2f\n", a.cart.DeliveryFee())
	fmt.Printf("total:        R$ %.2f\n", a.cart.Total())
}

func (a *app) checkout() error {
	if a.cart.Len() == 0 {
		return fmt.Errorf("cart is empty")
	}

	address := a.prompt("delivery address: ")
	if address == "" {
		return fmt.Errorf("delivery address is required")
	}

	card := a.prompt("card number: ")
	if !payment.ValidCardNumber(card) {
		return fmt.Errorf("invalid card number")
	}
	expiry := a.prompt("expiry (MM/YY): ")
	if !payment.ValidExpiry(expiry) {
		return fmt.Errorf("invalid expiry date")
	}

	resp, err := a.client.CreateOrder(models.CreateOrderRequest{
		Items:           a.cart.OrderItems(),
		DeliveryAddress: address,
		TotalPrice:      a.cart.Total(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s (pedido #%d)\n", resp.Message, resp.ID)
	return a.cart.Clear()
}

func (a *app) orders() error {
	orders, err := a.client.Orders()
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("pedido #%d — R$ %.2f — %s — %s\n",
			o.ID, o.TotalPrice, o.CreatedAt.Format("02/01/2006 15:04"), o.DeliveryAddress)
		for _, item := range o.Items {
			name := fmt.Sprintf("product %d", item.ProductID)
			if item.Product != nil {
				name = item.Product.Name
			}
			fmt.Printf("   %dx %s — R$ %.2f\n", item.Quantity, name, item.Price)
		}
	}
	return nil
}
