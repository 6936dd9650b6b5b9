package models

import (
	"encoding/json"
	"fmt"
)

type Collection string

const (
	Products Collection = "products"
	Orders   Collection = "orders"
)

func ParseCollection(name string) (Collection, bool) {
	switch Collection(name) {
	case Products, Orders:
		return Collection(name), true
	}
	return "", false
}

// Document is a schemaless JSON object. Unknown fields are kept as is.
type Document map[string]any

func (d Document) ID() string {
	switch v := d["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Collections is the whole persisted database document.
type Collections struct {
	Products []Document `json:"products"`
	Orders   []Document `json:"orders"`
}

func NewCollections() *Collections {
	return &Collections{Products: []Document{}, Orders: []Document{}}
}

func (c *Collections) Normalize() {
	if c.Products == nil {
		c.Products = []Document{}
	}
	if c.Orders == nil {
		c.Orders = []Document{}
	}
}

func (c *Collections) Get(name Collection) []Document {
	switch name {
	case Products:
		return c.Products
	case Orders:
		return c.Orders
	}
	return nil
}

func (c *Collections) Set(name Collection, docs []Document) {
	switch name {
	case Products:
		c.Products = docs
	case Orders:
		c.Orders = docs
	}
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Weight      string `json:"weight,omitempty"`
	TamilName   string `json:"tamilName,omitempty"`
}

type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
}

func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

type OrderItem struct {
	ProductID string `json:"productId" firestore:"productId"`
	Name      string `json:"name" firestore:"name"`
	Price     int64  `json:"price" firestore:"price"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

type Order struct {
	ID           string      `json:"id,omitempty" firestore:"-"`
	Date         string      `json:"date,omitempty" firestore:"date"`
	Status       OrderStatus `json:"status,omitempty" firestore:"status"`
	CustomerName string      `json:"customerName" firestore:"customerName"`
	Email        string      `json:"email" firestore:"email"`
	Phone        string      `json:"phone" firestore:"phone"`
	Address      string      `json:"address" firestore:"address"`
	PaymentMode  string      `json:"paymentMode" firestore:"paymentMode"`
	Total        int64       `json:"total" firestore:"total"`
	Items        []OrderItem `json:"items" firestore:"items"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Statuses only move forward; Cancelled is reachable from any non-terminal
// status and a repeated status is accepted.
func CanTransition(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if !from.Valid() {
		// legacy documents with an unknown status may be corrected
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}
