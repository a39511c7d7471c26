package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

const counterKeyPrefix = "orders:counter:"

const fallbackAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OrderNumberGenerator produces human-readable order numbers of the form
// ORD-{YYYYMMDD}-{last 6 of epoch millis}-{daily counter}. When the counter
// backend is down it falls back to a random 3-char suffix, trading strict
// sequencing for availability.
type OrderNumberGenerator struct {
	counter DailyCounter
	now     func() time.Time
}

func NewOrderNumberGenerator(counter DailyCounter) *OrderNumberGenerator {
	return &OrderNumberGenerator{
		counter: counter,
		now:     time.Now,
	}
}

// WithClock overrides the time source, pinning the date and millis parts.
func (g *OrderNumberGenerator) WithClock(now func() time.Time) *OrderNumberGenerator {
	g.now = now
	return g
}

func (g *OrderNumberGenerator) Next(ctx context.Context) string {
	now := g.now()
	date := now.Format("20060102")
	millis := fmt.Sprintf("%d", now.UnixMilli())
	suffix := millis[len(millis)-6:]

	count, err := g.counter.Incr(ctx, counterKeyPrefix+date)
	if err != nil {
		log.Printf("order number counter unavailable, using random suffix: %v", err)
		return fmt.Sprintf("ORD-%s-%s-%s", date, suffix, g.randomSuffix())
	}
	if count == 1 {
		// First order of the day owns setting the key's expiry.
		if err := g.counter.Expire(ctx, counterKeyPrefix+date, 24*time.Hour); err != nil {
			log.Printf("failed to set counter expiry: %v", err)
		}
	}

	return fmt.Sprintf("ORD-%s-%s-%03d", date, suffix, count)
}

func (g *OrderNumberGenerator) randomSuffix() string {
	chars := make([]byte, 3)
	for i := range chars {
		chars[i] = fallbackAlphabet[rand.Intn(len(fallbackAlphabet))]
	}
	return string(chars)
}
