package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
)

const (
	reportDays     = 7
	topProductsMax = 5
)

// CSVHeader is the first row of the sales export
var CSVHeader = []string{"Order ID", "Product", "Vendor", "Buyer", "Qty", "Status", "Price Each", "Total", "Date"}

type TopProduct struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Report is the sales dashboard data
type Report struct {
	Labels       []string     `json:"labels"`
	Values       []float64    `json:"values"`
	TopProducts  []TopProduct `json:"top_products"`
	TotalRevenue float64      `json:"total_revenue"`
	TotalOrders  int64        `json:"total_orders"`
}

// ComputeReport summarizes the orders visible to an admin (all) or a vendor
// (their own). Consumers get ErrForbidden.
func (s *Service) ComputeReport(ctx context.Context, id auth.Identity) (*Report, error) {
	scope, err := s.reportScope(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.Orders().List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return BuildReport(orders, s.now()), nil
}

// BuildReport aggregates orders as of now. Daily values cover the seven UTC
// days ending today and count Delivered orders only, as does total revenue.
// Top products and the order count include every status.
func BuildReport(orders []model.Order, now time.Time) *Report {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	report := &Report{
		Labels:      make([]string, 0, reportDays),
		Values:      make([]float64, 0, reportDays),
		TopProducts: []TopProduct{},
		TotalOrders: int64(len(orders)),
	}

	for i := reportDays - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.Add(24 * time.Hour)
		day := decimal.Zero
		for _, o := range orders {
			created := o.CreatedAt.UTC()
			if o.Status == model.OrderDelivered && !created.Before(start) && created.Before(end) {
				day = day.Add(o.Total())
			}
		}
		report.Labels = append(report.Labels, start.Format("2006-01-02"))
		report.Values = append(report.Values, day.Round(2).InexactFloat64())
	}

	revenue := decimal.Zero
	qtyByName := map[string]int{}
	var names []string
	for _, o := range orders {
		if o.Status == model.OrderDelivered {
			revenue = revenue.Add(o.Total())
		}
		if _, seen := qtyByName[o.ProductName]; !seen {
			names = append(names, o.ProductName)
		}
		qtyByName[o.ProductName] += o.Quantity
	}
	report.TotalRevenue = revenue.Round(2).InexactFloat64()

	for _, name := range names {
		report.TopProducts = append(report.TopProducts, TopProduct{Name: name, Qty: qtyByName[name]})
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Qty > report.TopProducts[j].Qty
	})
	if len(report.TopProducts) > topProductsMax {
		report.TopProducts = report.TopProducts[:topProductsMax]
	}
	return report
}

// ExportCSV writes the caller's sales as CSV, newest first
func (s *Service) ExportCSV(ctx context.Context, id auth.Identity, w io.Writer) error {
	scope, err := s.reportScope(ctx, id)
	if err != nil {
		return err
	}
	orders, err := s.repo.Orders().List(ctx, scope)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(CSVRow(&o)); err != nil {
			return fmt.Errorf("failed to write order %d: %w", o.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVRow renders one order for the sales export
func CSVRow(o *model.Order) []string {
	buyer := ""
	if o.Buyer != nil {
		buyer = o.Buyer.Username
	}
	return []string{
		strconv.FormatUint(uint64(o.ID), 10),
		o.ProductName,
		o.VendorName,
		buyer,
		strconv.Itoa(o.Quantity),
		string(o.Status),
		decimal.NewFromFloat(o.PriceEach).StringFixed(2),
		o.Total().StringFixed(2),
		o.CreatedAt.UTC().Format("2006-01-02 15:04"),
	}
}
