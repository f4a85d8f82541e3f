package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/repositories"
)

const (
	orderNumberPrefix = "ORD"
	orderDayLayout    = "20060102"
)

// SequenceGenerator hands out ORD-YYYYMMDD-NNNN numbers, restarting at 0001 each business day.
type SequenceGenerator struct {
	loc *time.Location
}

func NewSequenceGenerator(loc *time.Location) *SequenceGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &SequenceGenerator{loc: loc}
}

// DayBounds returns the UTC start of the business day containing t and the start of the next one.
func (g *SequenceGenerator) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(g.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, g.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// NextOrderNumber must be called with a repository bound to the order transaction.
func (g *SequenceGenerator) NextOrderNumber(ctx context.Context, orders repositories.OrderStore, today time.Time) (string, error) {
	day := today.In(g.loc).Format(orderDayLayout)

	seq, err := orders.IncrementDailySequence(ctx, day, func() (int, error) {
		start, end := g.DayBounds(today)
		latest, err := orders.FindLatestOrderOnDay(ctx, start, end)
		if err != nil {
			return 0, err
		}
		if latest == nil {
			return 0, nil
		}
		return ParseOrderSequence(latest.OrderNumber)
	})
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(day, seq), nil
}

func FormatOrderNumber(day string, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, day, seq)
}

// ParseOrderSequence extracts the numeric sequence from an order number.
// A malformed number means stored data is corrupt.
func ParseOrderSequence(orderNumber string) (int, error) {
	parts := strings.Split(orderNumber, "-")
	if len(parts) != 3 || parts[0] != orderNumberPrefix {
		return 0, apperrors.DataIntegrity(fmt.Sprintf("malformed order number %q", orderNumber), nil)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return 0, apperrors.DataIntegrity(fmt.Sprintf("malformed order number %q", orderNumber), err)
	}
	return seq, nil
}
