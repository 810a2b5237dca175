package generator

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/DioGolang/GoTraffic/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var ErrInvalidFactoryConfig = errors.New("invalid order factory config")

// MaxItemsPerOrder caps ItemsMax.
const MaxItemsPerOrder = 1 << 16

type RoundingMode string

const (
	// RoundHalfUp rounds ties away from zero (1.005 -> 1.01). Prices are positive,
	// so this is the usual commercial half-up.
	RoundHalfUp RoundingMode = "half_up"
	// RoundHalfEven rounds ties to the even neighbour (1.005 -> 1.00).
	RoundHalfEven RoundingMode = "half_even"
)

func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(s) {
	case RoundHalfUp, RoundHalfEven:
		return RoundingMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown rounding mode %q", ErrInvalidFactoryConfig, s)
}

// RoundPrice rounds p to 2 decimal places. The float is first converted to its
// shortest decimal representation, so 2.675 is treated as a tie.
func RoundPrice(p float64, mode RoundingMode) float64 {
	d := decimal.NewFromFloat(p)
	if mode == RoundHalfEven {
		d = d.RoundBank(2)
	} else {
		d = d.Round(2)
	}
	f, _ := d.Float64()
	return f
}

// Source is the random source an OrderFactory draws from. Both pgregory.net/rand
// and math/rand satisfy it.
type Source interface {
	Intn(n int) int
	Int63n(n int64) int64
	Float64() float64
}

// FactoryConfig bounds every random draw. Ranges are inclusive.
type FactoryConfig struct {
	CustomerIDMin int64
	CustomerIDMax int64
	ItemsMin      int
	ItemsMax      int
	ProductIDMax  int
	QuantityMax   int
	PriceMin      float64
	PriceMax      float64
	Rounding      RoundingMode
}

func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		CustomerIDMin: 1,
		CustomerIDMax: 100,
		ItemsMin:      1,
		ItemsMax:      5,
		ProductIDMax:  10,
		QuantityMax:   5,
		PriceMin:      1.0,
		PriceMax:      10.0,
		Rounding:      RoundHalfUp,
	}
}

func (c FactoryConfig) Validate() error {
	switch {
	// The width Max-Min+1 must fit in an int64.
	case c.CustomerIDMin < 0 || c.CustomerIDMax < c.CustomerIDMin || c.CustomerIDMax-c.CustomerIDMin == math.MaxInt64:
		return fmt.Errorf("%w: customer id range [%d,%d]", ErrInvalidFactoryConfig, c.CustomerIDMin, c.CustomerIDMax)
	case c.ItemsMin < 1 || c.ItemsMax < c.ItemsMin || c.ItemsMax > MaxItemsPerOrder:
		return fmt.Errorf("%w: items range [%d,%d]", ErrInvalidFactoryConfig, c.ItemsMin, c.ItemsMax)
	case c.ProductIDMax < 1:
		return fmt.Errorf("%w: product id max %d", ErrInvalidFactoryConfig, c.ProductIDMax)
	case c.QuantityMax < 1:
		return fmt.Errorf("%w: quantity max %d", ErrInvalidFactoryConfig, c.QuantityMax)
	case math.IsNaN(c.PriceMin) || math.IsNaN(c.PriceMax) || math.IsInf(c.PriceMax, 0),
		c.PriceMin < 0.01 || c.PriceMax < c.PriceMin:
		return fmt.Errorf("%w: price range [%v,%v]", ErrInvalidFactoryConfig, c.PriceMin, c.PriceMax)
	}
	if _, err := ParseRoundingMode(string(c.Rounding)); err != nil {
		return err
	}
	return nil
}

// OrderFactory builds random orders. It reads nothing but its Source, so a fixed
// seed yields a reproducible order sequence.
type OrderFactory struct {
	cfg FactoryConfig
}

func NewOrderFactory(cfg FactoryConfig) (*OrderFactory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OrderFactory{cfg: cfg}, nil
}

func (f *OrderFactory) Build(rng Source) (*entity.Order, error) {
	c := f.cfg
	customerID := c.CustomerIDMin + rng.Int63n(c.CustomerIDMax-c.CustomerIDMin+1)
	count := c.ItemsMin + rng.Intn(c.ItemsMax-c.ItemsMin+1)

	items := make([]entity.Item, count)
	for i := range items {
		price := c.PriceMin + rng.Float64()*(c.PriceMax-c.PriceMin)
		items[i] = entity.Item{
			ProductID: 1 + rng.Intn(c.ProductIDMax),
			Quantity:  1 + rng.Intn(c.QuantityMax),
			Price:     RoundPrice(price, c.Rounding),
		}
	}

	return entity.NewOrder(strconv.FormatInt(customerID, 10), items)
}
