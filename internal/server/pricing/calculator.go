package pricing

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shipshopglobal/backend/internal/logging"
	"github.com/shopspring/decimal"
)

// DefaultVolumetricDivisor is the industry-standard dimensional-weight
// divisor for centimetre dimensions. Fixed per deployment, never per call.
const DefaultVolumetricDivisor = 5000.0

// Calculator computes billable weights and resolves them against a rate slab.
//
// Pricing is fail-open: Quote never returns an error. Any parse or lookup
// failure degrades to a zero price with a warning log, so a pricing problem
// can never block mailbox-item intake. This is a deliberate business policy,
// not an oversight.
type Calculator struct {
	slab    *Slab
	divisor float64
	logger  logging.Logger
}

// NewCalculator builds a Calculator. A zero or negative divisor falls back
// to DefaultVolumetricDivisor.
func NewCalculator(slab *Slab, divisor float64, logger logging.Logger) *Calculator {
	if divisor <= 0 {
		divisor = DefaultVolumetricDivisor
	}
	return &Calculator{slab: slab, divisor: divisor, logger: logger.With("module", "pricing")}
}

// parseDimension splits an "LxWxH" string into three positive numbers.
// Anything that is not exactly three numeric components yields an error;
// the caller substitutes unit dimensions.
func parseDimension(dimension string) (l, w, h float64, err error) {
	normalized := strings.ToLower(strings.TrimSpace(dimension))
	parts := strings.Split(normalized, "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("dimension %q: expected three components", dimension)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, perr := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("dimension %q: component %d is not numeric", dimension, i+1)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

// BillableWeight returns ceil(max(actual, L*W*H/divisor)). A malformed
// dimension string falls back to unit dimensions (1,1,1) rather than failing.
func (c *Calculator) BillableWeight(ctx context.Context, weightKg float64, dimension string) float64 {
	l, w, h, err := parseDimension(dimension)
	if err != nil {
		c.logger.Warn(ctx, "falling back to unit dimensions", "error", err.Error())
		l, w, h = 1, 1, 1
	}
	volumetric := (l * w * h) / c.divisor
	return math.Ceil(math.Max(weightKg, volumetric))
}

// Quote stamps a shipping price for the given weight and dimensions.
// It never fails: on any problem the returned price is zero and the cause is
// logged.
func (c *Calculator) Quote(ctx context.Context, weightKg float64, dimension string) decimal.Decimal {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(ctx, "price computation panicked, quoting zero", "cause", fmt.Sprint(r))
		}
	}()

	if weightKg < 0 {
		c.logger.Warn(ctx, "negative weight, quoting zero", "weight_kg", weightKg)
		return decimal.Zero
	}

	billable := c.BillableWeight(ctx, weightKg, dimension)
	return c.slab.PriceFor(billable)
}
