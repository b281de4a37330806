package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "crops":
		handleCrops(args)
	case "products":
		handleProducts(args)
	case "predict":
		handlePredict(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: agrimarket auth <register|login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "register":
		registerAccount(args[1:])
	case "login":
		login(args[1:])
	case "logout":
		logout()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handleCrops(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: agrimarket crops <list|add>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listCrops(args[1:])
	case "add":
		addCrop(args[1:])
	default:
		fmt.Printf("unknown crops command: %s\n", subCmd)
	}
}

func handleProducts(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: agrimarket products <list|add>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "list":
		listProducts(args[1:])
	case "add":
		addProduct(args[1:])
	default:
		fmt.Printf("unknown products command: %s\n", subCmd)
	}
}

// Auth commands
func registerAccount(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	role := fs.String("role", "", "role (farmer, buyer, or seller)")
	location := fs.String("location", "", "location (optional)")

	fs.Parse(args)

	if *name == "" || *email == "" || *role == "" {
		fmt.Println("Error: name, email, and role are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"name":     *name,
		"email":    *email,
		"password": *password,
		"role":     *role,
		"location": *location,
	}

	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/register", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ Account registered: %s (%s)\n", *email, *role)
		if token, ok := result["token"].(string); ok {
			saveToken(token)
		}
	} else {
		fmt.Printf("✗ Registration failed: %v\n", result)
	}
}

func login(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" {
		fmt.Println("Error: email is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/auth/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logout() {
	req, _ := http.NewRequest("POST", getAPIURL()+"/auth/logout", nil)
	addAuthHeader(req)
	if resp, err := http.DefaultClient.Do(req); err == nil {
		resp.Body.Close()
	}
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	req, _ := http.NewRequest("GET", getAPIURL()+"/auth/session", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		fmt.Println("Not logged in")
		return
	}

	var result struct {
		Account struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"account"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	fmt.Printf("✓ %s <%s> (%s)\n", result.Account.Name, result.Account.Email, result.Account.Role)
}

// Catalog commands
func listCrops(args []string) {
	fs := flag.NewFlagSet("crops list", flag.ExitOnError)
	search := fs.String("search", "", "search term")
	category := fs.String("category", "", "category filter")
	fs.Parse(args)

	body, status, err := getWithAuth("/crops?" + catalogQuery(*search, *category))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status != 200 {
		printAPIError(body, status)
		return
	}

	var result struct {
		Crops []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Farmer   string  `json:"farmer"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
			Location string  `json:"location"`
		} `json:"crops"`
		Total int `json:"total"`
	}
	json.Unmarshal(body, &result)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFARMER\tQUANTITY\tPRICE\tLOCATION")
	for _, c := range result.Crops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n", c.ID, c.Name, c.Farmer, c.Quantity, c.Price, c.Location)
	}
	w.Flush()
	fmt.Printf("%d listing(s)\n", result.Total)
}

func addCrop(args []string) {
	fs := flag.NewFlagSet("crops add", flag.ExitOnError)
	name := fs.String("name", "", "crop name")
	quantity := fs.String("quantity", "", "quantity in kg")
	price := fs.String("price", "", "price per kg")
	description := fs.String("description", "", "description (optional)")
	category := fs.String("category", "", "category (optional)")
	harvestDate := fs.String("harvest-date", "", "harvest date (optional)")
	images := fs.String("images", "", "comma-separated image URLs")
	fs.Parse(args)

	payload := map[string]interface{}{
		"name":        *name,
		"quantity":    *quantity,
		"price":       *price,
		"description": *description,
		"category":    *category,
		"harvestDate": *harvestDate,
		"images":      splitCSV(*images),
	}

	body, status, err := postWithAuth("/crops", payload)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status != 201 {
		printAPIError(body, status)
		return
	}

	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(body, &created)
	fmt.Printf("✓ Crop listed: %s (%s)\n", *name, created.ID)
}

func listProducts(args []string) {
	fs := flag.NewFlagSet("products list", flag.ExitOnError)
	search := fs.String("search", "", "search term")
	category := fs.String("category", "", "category filter (seeds, fertilizers, pesticides)")
	fs.Parse(args)

	body, status, err := getWithAuth("/products?" + catalogQuery(*search, *category))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status != 200 {
		printAPIError(body, status)
		return
	}

	var result struct {
		Products []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Seller   string  `json:"seller"`
			Category string  `json:"category"`
			Price    float64 `json:"price"`
			Stock    int     `json:"stock"`
		} `json:"products"`
		Total int `json:"total"`
	}
	json.Unmarshal(body, &result)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSELLER\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range result.Products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Seller, p.Category, p.Price, p.Stock)
	}
	w.Flush()
	fmt.Printf("%d listing(s)\n", result.Total)
}

func addProduct(args []string) {
	fs := flag.NewFlagSet("products add", flag.ExitOnError)
	name := fs.String("name", "", "product name")
	category := fs.String("category", "", "category (seeds, fertilizers, pesticides)")
	price := fs.String("price", "", "price")
	stock := fs.String("stock", "", "units in stock")
	description := fs.String("description", "", "description (optional)")
	images := fs.String("images", "", "comma-separated image URLs")
	fs.Parse(args)

	payload := map[string]interface{}{
		"name":        *name,
		"category":    *category,
		"price":       *price,
		"stock":       *stock,
		"description": *description,
		"images":      splitCSV(*images),
	}

	body, status, err := postWithAuth("/products", payload)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status != 201 {
		printAPIError(body, status)
		return
	}

	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(body, &created)
	fmt.Printf("✓ Product listed: %s (%s)\n", *name, created.ID)
}

func handlePredict(args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	lat := fs.String("lat", "", "latitude")
	lng := fs.String("lng", "", "longitude")
	fs.Parse(args)

	payload := map[string]string{"lat": *lat, "lng": *lng}
	body, status, err := postWithAuth("/predict", payload)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status != 200 {
		printAPIError(body, status)
		return
	}

	var rec struct {
		Crop       string `json:"crop"`
		Confidence int    `json:"confidence"`
	}
	json.Unmarshal(body, &rec)
	fmt.Printf("Recommended crop: %s (%d%% confidence)\n", rec.Crop, rec.Confidence)
}

// Helper functions
func catalogQuery(search, category string) string {
	q := "search=" + search
	if category != "" {
		q += "&category=" + category
	}
	return q
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getWithAuth(path string) ([]byte, int, error) {
	req, err := http.NewRequest("GET", getAPIURL()+path, nil)
	if err != nil {
		return nil, 0, err
	}
	addAuthHeader(req)
	return doRequest(req)
}

func postWithAuth(path string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequest("POST", getAPIURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)
	return doRequest(req)
}

func doRequest(req *http.Request) ([]byte, int, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return buf.Bytes(), resp.StatusCode, nil
}

func printAPIError(body []byte, status int) {
	var apiErr struct {
		Error  string `json:"error"`
		Fields []struct {
			Field  string `json:"field"`
			Reason string `json:"reason"`
		} `json:"fields"`
	}
	json.Unmarshal(body, &apiErr)
	if apiErr.Error == "" {
		fmt.Printf("✗ Request failed (HTTP %d)\n", status)
		return
	}
	fmt.Printf("✗ %s (HTTP %d)\n", apiErr.Error, status)
	for _, f := range apiErr.Fields {
		fmt.Printf("  - %s: %s\n", f.Field, f.Reason)
	}
}

func getAPIURL() string {
	if url := os.Getenv("AGRIMARKET_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.agrimarket/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.agrimarket", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`AgriMarket CLI

Usage:
  agrimarket <command> [options]

Commands:
  auth      Account actions (register, login, logout, who)
  crops     Crop marketplace (list, add)
  products  Input-product marketplace (list, add)
  predict   Crop recommendation for a coordinate pair
  help      Show this help message

Environment Variables:
  AGRIMARKET_API    API endpoint (default: http://localhost:8080/api)

Examples:
  agrimarket auth register -name "Ramesh Kumar" -email ramesh@example.com -role farmer
  agrimarket auth login -email ramesh@example.com
  agrimarket crops list -search wheat
  agrimarket crops add -name Wheat -quantity 500 -price 25 -images https://example.com/wheat.jpg
  agrimarket predict -lat 30.7333 -lng 76.7794
`)
}
