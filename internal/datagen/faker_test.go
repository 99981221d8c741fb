//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"math"
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		if v1, v2 := f1.Int(0, 1000), f2.Int(0, 1000); v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
		if n1, n2 := f1.FirstName(), f2.FirstName(); n1 != n2 {
			t.Errorf("Same seed produced different names: %q != %q", n1, n2)
		}
	}
}

func TestFakerStrings(t *testing.T) {
	f := NewFakerWithSeed(1)
	tests := map[string]func() string{
		"FirstName":       f.FirstName,
		"LastName":        f.LastName,
		"City":            f.City,
		"Country":         f.Country,
		"ProductName":     f.ProductName,
		"ProductCategory": f.ProductCategory,
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			if fn() == "" {
				t.Errorf("%s returned empty string", name)
			}
		})
	}
}

func TestFakerPrice(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		p := f.Price(1, 500)
		if p < 1 || p > 500 {
			t.Fatalf("Price %v out of range", p)
		}
		if cents := p * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Fatalf("Price %v not rounded to cents", p)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Fatalf("Date %v outside range", d)
		}
		if d.Hour() != 0 || d.Minute() != 0 || d.Location() != time.UTC {
			t.Fatalf("Date %v not truncated to UTC midnight", d)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(10, 20)
		if v < 10 || v > 20 {
			t.Errorf("Int(10, 20) returned %d", v)
		}
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !f.Chance(1.01) {
			t.Fatal("Chance(>1) returned false")
		}
	}
}

func TestFakerNullable(t *testing.T) {
	f := NewFaker()
	if v := f.Nullable("x", 0); v != "x" {
		t.Errorf("Nullable with probability 0 returned %v", v)
	}
	if v := f.Nullable("x", 1.01); v != nil {
		t.Errorf("Nullable with probability > 1 returned %v", v)
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[Choose(f, items)] = true
	}
	for k := range seen {
		if k != "a" && k != "b" && k != "c" {
			t.Errorf("Choose returned unexpected value %q", k)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	if v := Choose(f, []int{}); v != 0 {
		t.Errorf("Choose on empty slice returned %d", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		if v := ChooseWeighted(f, []string{"never", "always"}, []int{0, 10}); v != "always" {
			t.Fatalf("ChooseWeighted picked zero-weight item %q", v)
		}
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("silver_customers", 250, 100)
	p.Update(99)
	p.Update(2)
	p.Update(149)
	if p.Rows() != 250 {
		t.Errorf("Rows() = %d, want 250", p.Rows())
	}
	p.Done()

	if NewProgressReporter("x", 0, 0).progressInterval != DefaultProgressInterval {
		t.Error("non-positive interval should select the default")
	}
}
