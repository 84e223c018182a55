package common

import (
	"strings"
	"testing"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		if id <= 0 {
			t.Fatalf("non-positive id %d", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestSha256Hash(t *testing.T) {
	got := Sha256Hash([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if got != strings.ToLower(got) || len(got) != 64 {
		t.Fatalf("digest not lowercase 64-char hex: %s", got)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-03-10", "2024-02-29", "1999-12-31"}
	for _, s := range valid {
		if !IsValidDate(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	invalid := []string{"", "10/03/2025", "2025-3-10", "2025-13-01", "2025-02-30", "yesterday"}
	for _, s := range invalid {
		if IsValidDate(s) {
			t.Fatalf("%s should be invalid", s)
		}
	}
}

func TestIsValidCustomerType(t *testing.T) {
	for _, s := range []string{CustomerTypeDaily, CustomerTypeWedding, CustomerTypeParty} {
		if !IsValidCustomerType(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "daily", "Retail"} {
		if IsValidCustomerType(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestMonthRange(t *testing.T) {
	cases := []struct{ month, first, last string }{
		{"2025-03", "2025-03-01", "2025-03-31"},
		{"2025-02", "2025-02-01", "2025-02-28"},
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2025-12", "2025-12-01", "2025-12-31"},
	}
	for _, c := range cases {
		first, last, err := MonthRange(c.month)
		if err != nil {
			t.Fatalf("%s: %v", c.month, err)
		}
		if first != c.first || last != c.last {
			t.Fatalf("%s: got %s..%s want %s..%s", c.month, first, last, c.first, c.last)
		}
	}
	if _, _, err := MonthRange("March 2025"); err == nil {
		t.Fatalf("expected error for bad month")
	}
}
