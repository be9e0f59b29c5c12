package service

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
)

func (f *fixture) order(t *testing.T, buyer auth.Identity, vendorName, product string, price float64, qty int, status model.OrderStatus, at time.Time) *model.Order {
	t.Helper()
	o := &model.Order{
		ProductName: product,
		VendorName:  vendorName,
		BuyerID:     buyer.UserID,
		Quantity:    qty,
		PriceEach:   price,
		Status:      status,
		CreatedAt:   at,
	}
	require.NoError(t, f.repo.Orders().Create(f.ctx, o))
	return o
}

func TestComputeReport(t *testing.T) {
	f := newFixture(t)
	vendor := f.user(t, "seller", "Marina Goods", model.RoleVendor)
	admin := f.user(t, "root", "", model.RoleAdmin)
	buyer := f.user(t, "ana", "", model.RoleConsumer)

	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	f.order(t, buyer, "Marina Goods", "Tuna", 100, 2, model.OrderDelivered, today)
	f.order(t, buyer, "Marina Goods", "Squid", 10, 5, model.OrderDelivered, today.Add(-time.Second))
	f.order(t, buyer, "Marina Goods", "Tuna", 100, 1, model.OrderPending, today.Add(time.Hour))
	f.order(t, buyer, "Marina Goods", "Crab", 40, 1, model.OrderDelivered, today.AddDate(0, 0, -7))
	f.order(t, buyer, "Someone Else", "Shrimp", 5, 9, model.OrderDelivered, today)

	report, err := f.svc.ComputeReport(f.ctx, vendor)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2026-06-09", "2026-06-10", "2026-06-11", "2026-06-12", "2026-06-13", "2026-06-14", "2026-06-15",
	}, report.Labels)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 50, 200}, report.Values)
	assert.Equal(t, 290.0, report.TotalRevenue)
	assert.Equal(t, int64(4), report.TotalOrders)
	assert.Equal(t, []TopProduct{{"Squid", 5}, {"Tuna", 3}, {"Crab", 1}}, report.TopProducts)

	report, err = f.svc.ComputeReport(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(5), report.TotalOrders)
	assert.Equal(t, 245.0, report.Values[6])
	assert.Equal(t, TopProduct{"Shrimp", 9}, report.TopProducts[0])

	_, err = f.svc.ComputeReport(f.ctx, buyer)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ComputeReport(f.ctx, auth.Anonymous)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil, testNow)
	assert.Len(t, report.Labels, 7)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0}, report.Values)
	assert.Empty(t, report.TopProducts)
	assert.Zero(t, report.TotalRevenue)
}

func TestBuildReportKeepsTopFive(t *testing.T) {
	var orders []model.Order
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		orders = append(orders, model.Order{ProductName: name, Quantity: i + 1, Status: model.OrderCancelled})
	}
	report := BuildReport(orders, testNow)
	require.Len(t, report.TopProducts, 5)
	assert.Equal(t, "f", report.TopProducts[0].Name)
	assert.Equal(t, "b", report.TopProducts[4].Name)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)
	vendor := f.user(t, "seller", "", model.RoleVendor)
	admin := f.user(t, "root", "", model.RoleAdmin)
	buyer := f.user(t, "ana", "", model.RoleConsumer)

	older := f.order(t, buyer, "seller", "Tuna", 19.99, 3, model.OrderDelivered, testNow.Add(-time.Hour))
	newer := f.order(t, buyer, "seller", "Squid", 0.1, 3, model.OrderPending, testNow)
	f.order(t, buyer, "other", "Crab", 1, 1, model.OrderPending, testNow)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportCSV(f.ctx, vendor, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{
		itoa(newer.ID), "Squid", "seller", "ana", "3", "Pending", "0.10", "0.30", "2026-06-15 10:30",
	}, rows[1])
	assert.Equal(t, itoa(older.ID), rows[2][0])
	assert.Equal(t, "59.97", rows[2][7])
	assert.Equal(t, "2026-06-15 09:30", rows[2][8])

	buf.Reset()
	require.NoError(t, f.svc.ExportCSV(f.ctx, admin, &buf))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	assert.ErrorIs(t, f.svc.ExportCSV(f.ctx, buyer, &buf), ErrForbidden)
}

func TestCSVRowTotalIsRounded(t *testing.T) {
	for _, tt := range []struct {
		price float64
		qty   int
		want  string
	}{
		{19.99, 3, "59.97"},
		{0.1, 3, "0.30"},
		{33.333, 3, "100.00"},
		{1.005, 1, "1.01"},
	} {
		row := CSVRow(&model.Order{PriceEach: tt.price, Quantity: tt.qty})
		assert.Equal(t, tt.want, row[7], "%v x %d", tt.price, tt.qty)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
