package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotalsScenario(t *testing.T) {
	lines := []Line{
		{MenuItemID: 1, Price: d("10.00"), Quantity: 2},
		{MenuItemID: 2, Price: d("5.00"), Quantity: 1},
	}
	got := ComputeTotals(lines, d("2.99"))
	if !got.Subtotal.Equal(d("25.00")) {
		t.Errorf("subtotal = %s", got.Subtotal)
	}
	if !got.Tax.Equal(d("2.00")) {
		t.Errorf("tax = %s", got.Tax)
	}
	if !got.Total.Equal(d("29.99")) {
		t.Errorf("total = %s", got.Total)
	}
}

func TestComputeTotalsIndependentOfOrder(t *testing.T) {
	lines := []Line{
		{MenuItemID: 1, Price: d("3.49"), Quantity: 3},
		{MenuItemID: 2, Price: d("12.00"), Quantity: 1},
		{MenuItemID: 3, Price: d("0.99"), Quantity: 7},
		{MenuItemID: 4, Price: d("8.25"), Quantity: 2},
	}
	fee := d("2.99")
	want := ComputeTotals(lines, fee)
	if !want.Total.Equal(want.Subtotal.Add(want.Subtotal.Mul(TaxRate).Round(2)).Add(fee)) {
		t.Fatalf("total identity broken: %+v", want)
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]Line(nil), lines...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := ComputeTotals(shuffled, fee); !got.Total.Equal(want.Total) {
			t.Fatalf("permutation %d total = %s, want %s", i, got.Total, want.Total)
		}
	}
}

// Tax is rounded to cents, so the total equals subtotal + subtotal*0.08 +
// fee only up to the cent: 0.10 of goods is taxed 0.008 -> 0.01.
func TestComputeTotalsRoundsTaxToCents(t *testing.T) {
	got := ComputeTotals([]Line{{MenuItemID: 1, Price: d("0.10"), Quantity: 1}}, d("2.99"))
	if !got.Tax.Equal(d("0.01")) {
		t.Errorf("tax = %s, want 0.01", got.Tax)
	}
	if !got.Total.Equal(d("3.10")) {
		t.Errorf("total = %s, want 3.10", got.Total)
	}
	exact := got.Subtotal.Add(got.Subtotal.Mul(TaxRate)).Add(d("2.99"))
	if diff := got.Total.Sub(exact).Abs(); diff.GreaterThan(d("0.005")) {
		t.Errorf("total %s is %s away from %s", got.Total, diff, exact)
	}
}

func TestEmptyCartCostsDeliveryOnly(t *testing.T) {
	got := ComputeTotals(nil, d("2.99"))
	if !got.Subtotal.IsZero() || !got.Total.Equal(d("2.99")) {
		t.Fatalf("totals = %+v", got)
	}
}

func TestKey(t *testing.T) {
	if got := Key(42, 7); got != "cart_42_7" {
		t.Errorf("Key(42, 7) = %q", got)
	}
	if got := Key(0, 7); got != "cart_guest_7" {
		t.Errorf("Key(0, 7) = %q", got)
	}
}

func TestCartLineEditing(t *testing.T) {
	c := &Cart{}
	c.Add(Line{MenuItemID: 1, Price: d("10"), Quantity: 1})
	c.Add(Line{MenuItemID: 1, Price: d("10"), Quantity: 2})
	c.Add(Line{MenuItemID: 1, Price: d("10"), Quantity: 1, Instructions: "no onions"})
	c.Add(Line{MenuItemID: 2, Price: d("5"), Quantity: 1})

	if len(c.Lines) != 3 {
		t.Fatalf("lines = %+v", c.Lines)
	}
	if c.Lines[0].Quantity != 3 {
		t.Fatalf("merged quantity = %d", c.Lines[0].Quantity)
	}
	if !c.SetQuantity(2, "", 4) || c.Lines[2].Quantity != 4 {
		t.Fatalf("SetQuantity failed: %+v", c.Lines)
	}
	if c.SetQuantity(99, "", 1) {
		t.Fatal("SetQuantity matched a missing item")
	}
	if !c.SetQuantity(1, "", 0) || len(c.Lines) != 2 {
		t.Fatalf("zero quantity should remove one line: %+v", c.Lines)
	}
	if !c.Remove(1, "no onions") || !c.Remove(2, "") || !c.Empty() {
		t.Fatalf("remove failed: %+v", c.Lines)
	}
}

func TestCartVariantsOfOneItemAreEditedSeparately(t *testing.T) {
	c := &Cart{}
	c.Add(Line{MenuItemID: 1, Price: d("10"), Quantity: 1, Instructions: "no onions"})
	c.Add(Line{MenuItemID: 1, Price: d("10"), Quantity: 2})

	if !c.SetQuantity(1, "", 3) {
		t.Fatal("SetQuantity missed the plain line")
	}
	if got := c.Find(1, "").Quantity; got != 3 {
		t.Fatalf("plain line quantity = %d, want 3", got)
	}
	if got := c.Find(1, "no onions").Quantity; got != 1 {
		t.Fatalf("no onions line quantity = %d, want 1", got)
	}

	if c.Remove(1, "extra cheese") {
		t.Fatal("Remove matched a variant that is not in the cart")
	}
	if !c.Remove(1, "no onions") {
		t.Fatal("Remove missed the no onions line")
	}
	if len(c.Lines) != 1 || c.Lines[0].Instructions != "" || c.Lines[0].Quantity != 3 {
		t.Fatalf("lines = %+v", c.Lines)
	}
}
