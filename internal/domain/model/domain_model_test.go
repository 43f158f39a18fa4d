package model

import "testing"

func TestNormalizePromoCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"90firstmonth", "90FIRSTMONTH"},
		{"  50monthly  ", "50MONTHLY"},
		{"\t90FirstMonth\n", "90FIRSTMONTH"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizePromoCode(c.in); got != c.want {
			t.Errorf("NormalizePromoCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewPromoCode_Validation(t *testing.T) {
	if _, err := NewPromoCode("", PromoTypeOneTime, 90, true, ""); err == nil {
		t.Error("expected error for empty code")
	}
	if _, err := NewPromoCode("X", "WEEKLY", 10, true, ""); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := NewPromoCode("X", PromoTypeRecurring, 0, true, ""); err == nil {
		t.Error("expected error for zero percent")
	}
	p, err := NewPromoCode(" 90firstmonth ", PromoTypeOneTime, 90, true, "90% off first month")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != "90FIRSTMONTH" {
		t.Errorf("code not normalized on construction: %q", p.Code)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{900, "9.00"},
		{1000, "10.00"},
		{905, "9.05"},
		{5, "0.05"},
	}
	for _, c := range cases {
		m := NewMoney(c.cents, BillingCurrency)
		if got := m.String(); got != c.want {
			t.Errorf("Money(%d).String() = %q, want %q", c.cents, got, c.want)
		}
	}
}

func TestOneTimeCreditAmount(t *testing.T) {
	m := OneTimeCreditAmount(90)
	if m.Cents != 900 || m.Currency != "USD" {
		t.Errorf("expected 900 cents USD, got %d %s", m.Cents, m.Currency)
	}
	if m.String() != "9.00" {
		t.Errorf("expected \"9.00\", got %q", m.String())
	}
}

func TestPlanForActive(t *testing.T) {
	if PlanForActive(true) != PlanPro {
		t.Error("active should map to pro")
	}
	if PlanForActive(false) != PlanFree {
		t.Error("inactive should map to free")
	}
}

func TestShopAccountCreditOwed(t *testing.T) {
	s := &ShopAccount{ShopDomain: "x.myshopify.com", PendingPromoCode: "90FIRSTMONTH"}
	if !s.CreditOwed() {
		t.Error("pending code without applied credit should be owed")
	}
	s.CreditApplied = true
	if s.CreditOwed() {
		t.Error("applied credit should not be owed")
	}
	s = &ShopAccount{ShopDomain: "x.myshopify.com"}
	if s.CreditOwed() {
		t.Error("no pending code should not be owed")
	}
}
