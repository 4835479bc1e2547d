package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	got, ok := IsValidDate("2025-03-01")
	if !ok {
		t.Fatal("IsValidDate(2025-03-01) = false, want true")
	}
	want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("IsValidDate(2025-03-01) = %v, want %v", got, want)
	}

	invalid := []string{"2025-13-01", "2025-02-30", "01-03-2025", "2025/03/01", "yesterday", ""}
	for _, date := range invalid {
		if _, ok := IsValidDate(date); ok {
			t.Errorf("IsValidDate(%q) = true, want false", date)
		}
	}
}

func TestIsValidHexColor(t *testing.T) {
	valid := []string{"#3b82f6", "#FFFFFF", "#000000", "#AbCdEf"}
	invalid := []string{"3b82f6", "#3b82f", "#3b82f6a", "#ggg000", "blue", ""}
	for _, color := range valid {
		if !IsValidHexColor(color) {
			t.Errorf("IsValidHexColor(%q) = false, want true", color)
		}
	}
	for _, color := range invalid {
		if IsValidHexColor(color) {
			t.Errorf("IsValidHexColor(%q) = true, want false", color)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"full_day", "half_day", "hourly"}
	if !IsInSlice("half_day", slice) {
		t.Error("IsInSlice(half_day) = false, want true")
	}
	if IsInSlice("weekly", slice) {
		t.Error("IsInSlice(weekly) = true, want false")
	}
	if IsInSlice("", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "required"},
		{Field: "reason", Message: "must be at least 10 characters"},
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["start_date"] != "required" {
		t.Errorf("ToMap()[start_date] = %q, want %q", m["start_date"], "required")
	}

	if errs.Error() != "start_date: required; reason: must be at least 10 characters" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
