package agency

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"boostbot/internal/pkg/httpclient"
)

// RemoteService is one wholesale catalog entry as the agency reports it.
type RemoteService struct {
	ID          int64
	Name        string
	Rate        float64 // INR per 1000 units
	Min         int
	Max         int
	Description string
	Refill      bool
	Cancel      bool
}

// OrderStatus is the agency's view of a submitted order.
type OrderStatus struct {
	Status  string
	Remains string
}

// Client talks to the fulfillment agency's key-authenticated API. Every
// operation is a GET with an action query parameter.
type Client struct {
	http    *httpclient.Client
	baseURL string
	key     string
}

// NewClient creates an agency API client.
func NewClient(http *httpclient.Client, baseURL, key string) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
	}
}

func (c *Client) get(ctx context.Context, params map[string]string) ([]byte, error) {
	q := map[string]string{"key": c.key}
	for k, v := range params {
		q[k] = v
	}
	body, err := c.http.Get(ctx, c.baseURL, q)
	if err != nil {
		return nil, fmt.Errorf("agency request failed: %w", err)
	}
	return body, nil
}

// apiError extracts an {"error": "..."} payload if present.
func apiError(raw map[string]interface{}) error {
	if msg, ok := raw["error"]; ok {
		return fmt.Errorf("agency error: %v", msg)
	}
	return nil
}

// Services fetches the full wholesale catalog.
func (c *Client) Services(ctx context.Context) ([]RemoteService, error) {
	body, err := c.get(ctx, map[string]string{"action": "services"})
	if err != nil {
		return nil, err
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		// an error response comes back as an object, not a list
		var obj map[string]interface{}
		if jerr := json.Unmarshal(body, &obj); jerr == nil {
			if aerr := apiError(obj); aerr != nil {
				return nil, aerr
			}
		}
		return nil, fmt.Errorf("agency services: unexpected response: %w", err)
	}

	out := make([]RemoteService, 0, len(raw))
	for _, item := range raw {
		svc := RemoteService{
			ID:          toInt64(item["service"]),
			Name:        toString(item["name"]),
			Rate:        toFloat(item["rate"]),
			Min:         int(toInt64(item["min"])),
			Max:         int(toInt64(item["max"])),
			Description: toString(item["desc"]),
			Refill:      toBool(item["refill"]),
			Cancel:      toBool(item["cancel"]),
		}
		if svc.ID == 0 || svc.Name == "" {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

// AddOrder submits an order and returns the agency's order id.
func (c *Client) AddOrder(ctx context.Context, serviceID int64, link string, quantity int) (int64, error) {
	body, err := c.get(ctx, map[string]string{
		"action":   "add",
		"service":  strconv.FormatInt(serviceID, 10),
		"link":     link,
		"quantity": strconv.Itoa(quantity),
	})
	if err != nil {
		return 0, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(raw0(body), &raw); err != nil {
		return 0, fmt.Errorf("agency add: unexpected response: %w", err)
	}
	if err := apiError(raw); err != nil {
		return 0, err
	}
	id := toInt64(raw["order"])
	if id == 0 {
		return 0, fmt.Errorf("agency add: missing order id in response")
	}
	return id, nil
}

// Status fetches the current state of a submitted order.
func (c *Client) Status(ctx context.Context, remoteID int64) (OrderStatus, error) {
	body, err := c.get(ctx, map[string]string{
		"action": "status",
		"order":  strconv.FormatInt(remoteID, 10),
	})
	if err != nil {
		return OrderStatus{}, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(raw0(body), &raw); err != nil {
		return OrderStatus{}, fmt.Errorf("agency status: unexpected response: %w", err)
	}
	if err := apiError(raw); err != nil {
		return OrderStatus{}, err
	}
	return OrderStatus{
		Status:  strings.ToLower(toString(raw["status"])),
		Remains: toString(raw["remains"]),
	}, nil
}

// Balance fetches the spendable agency balance and its currency.
func (c *Client) Balance(ctx context.Context) (float64, string, error) {
	body, err := c.get(ctx, map[string]string{"action": "balance"})
	if err != nil {
		return 0, "", err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(raw0(body), &raw); err != nil {
		return 0, "", fmt.Errorf("agency balance: unexpected response: %w", err)
	}
	if err := apiError(raw); err != nil {
		return 0, "", err
	}
	return toFloat(raw["balance"]), toString(raw["currency"]), nil
}

func raw0(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}

// The agency serializes numbers inconsistently (sometimes strings,
// sometimes numbers), so every field goes through a coercion helper.

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case json.Number:
		n, _ := t.Int64()
		return n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return n
	default:
		return 0
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}
