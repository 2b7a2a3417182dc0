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

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestParseTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	got, ok := ParseTimestamp("2025-01-10T09:15:00", ist)
	if !ok {
		t.Fatalf("ParseTimestamp(local) failed")
	}
	want := time.Date(2025, 1, 10, 9, 15, 0, 0, ist)
	if !got.Equal(want) {
		t.Errorf("ParseTimestamp(local) = %v, want %v", got, want)
	}

	got, ok = ParseTimestamp("2025-01-10T03:45:00Z", ist)
	if !ok || !got.Equal(want) {
		t.Errorf("ParseTimestamp(utc) = %v, %v, want %v", got, ok, want)
	}

	got, ok = ParseTimestamp("2025-01-10 09:15", ist)
	if !ok || !got.Equal(want) {
		t.Errorf("ParseTimestamp(space) = %v, %v, want %v", got, ok, want)
	}

	if _, ok := ParseTimestamp("yesterday", ist); ok {
		t.Errorf("ParseTimestamp(garbage) = true, want false")
	}
}

type structSample struct {
	DeviceType string `json:"device_type" validate:"required,oneof=Web Mobile"`
	IPAddress  string `json:"ip_address" validate:"omitempty,ip"`
	Internal   string `json:"-"`
}

func TestStruct(t *testing.T) {
	if errs := Struct(structSample{DeviceType: "Web", IPAddress: "10.0.0.1"}); errs != nil {
		t.Fatalf("Struct(valid) = %v, want nil", errs)
	}

	errs := Struct(structSample{DeviceType: "Fax", IPAddress: "nope"})
	m := errs.ToMap()
	if m["device_type"] != "device_type must be one of: Web, Mobile" {
		t.Errorf("device_type message = %q", m["device_type"])
	}
	if m["ip_address"] != "ip_address must be a valid IP address" {
		t.Errorf("ip_address message = %q", m["ip_address"])
	}

	errs = Struct(structSample{})
	if errs.ToMap()["device_type"] != "device_type is required" {
		t.Errorf("required message = %q", errs.ToMap()["device_type"])
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "phone": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
