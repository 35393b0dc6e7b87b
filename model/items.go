package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Item is one line of an invoice.
type Item struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	InvoiceID   uint `gorm:"not null;index"`
	Position    int
	Description string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"not null"`
	Total       decimal.Decimal `gorm:"not null"`
}

func (Item) TableName() string { return "items" }

// ItemInput is the structured text accepted for one item, e.g.
//
//	{"description": "Widget", "quantity": 3, "price": 9.99}
type ItemInput struct {
	Description string           `json:"description" validate:"required"`
	Quantity    *int             `json:"quantity" validate:"required,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

var validate = validator.New()

// NewItem builds an item and computes its line total.
func NewItem(description string, quantity int, unitPrice decimal.Decimal) Item {
	return Item{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       LineTotal(quantity, unitPrice),
	}
}

// LineTotal is quantity × unit price rounded to two places.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// TotalAmount sums the line totals of items.
func TotalAmount(items []Item) decimal.Decimal {
	return lo.Reduce(items, func(sum decimal.Decimal, it Item, _ int) decimal.Decimal {
		return sum.Add(it.Total)
	}, decimal.Zero).Round(2)
}

// ParseItem decodes and validates one item record. The returned error names
// the offending input.
func ParseItem(input string) (Item, error) {
	var in ItemInput
	if err := json.Unmarshal([]byte(input), &in); err != nil {
		return Item{}, invalid(input, err.Error())
	}
	in.Description = strings.TrimSpace(in.Description)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				return fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag())
			})
			return Item{}, invalid(input, strings.Join(msgs, ", "))
		}
		return Item{}, invalid(input, err.Error())
	}
	if in.Price.IsNegative() {
		return Item{}, invalid(input, "price must not be negative")
	}
	return NewItem(in.Description, *in.Quantity, *in.Price), nil
}

// ParseItems parses every record and stops at the first malformed one.
func ParseItems(inputs []string) ([]Item, error) {
	items := make([]Item, 0, len(inputs))
	for _, input := range inputs {
		it, err := ParseItem(input)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// ParseQuantity accepts a non-negative integer.
func ParseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || q < 0 {
		return 0, invalid(s, "quantity must be a non-negative integer")
	}
	return q, nil
}

// ParsePrice accepts a non-negative decimal number.
func ParsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || p.IsNegative() {
		return decimal.Zero, invalid(s, "price must be a non-negative number")
	}
	return p, nil
}
