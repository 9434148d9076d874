/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestGetImplicitDateRange_year(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020", "2021", "2006")
}

func TestGetImplicitDateRange_month(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020-01", "2020-02", "2006-01")
}

func TestGetImplicitDateRange_day(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020-01-01", "2020-01-02", "2006-01-02")
}

func TestGetImplicitDateRange_invalid(t *testing.T) {
	tooMany := "2020-01-0123"
	_, _, err := getImplicitDateRange(tooMany)
	if err == nil {
		t.Fatalf("Expected error parsing %q", tooMany)
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("Should have error with invalid format: %v", err)
	}

	letters := "not_real"
	_, _, err = getImplicitDateRange(letters)
	if err == nil {
		t.Fatalf("Expected error parsing %q", letters)
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("Should have error with invalid format: %v", err)
	}
}

func doTestGetImplicitDateRange(t *testing.T, startString string, endString string, format string) {
	t.Helper()
	start, end, err := getImplicitDateRange(startString)
	if err != nil {
		t.Fatalf("Parsing %q: %v", startString, err)
	}

	wantStart, err := time.Parse(format, startString)
	if err != nil {
		t.Fatalf("Parsing expected start: %v", err)
	}
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}

	// The implicit end is inclusive: one second before the next period.
	wantEnd, err := time.Parse(format, endString)
	if err != nil {
		t.Fatalf("Parsing expected end: %v", err)
	}
	wantEnd = wantEnd.Add(-time.Second)
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestGetExplicitDateRange(t *testing.T) {
	start, end, err := getExplicitDateRange("2020-01-01", "2020-06")
	if err != nil {
		t.Fatalf("getExplicitDateRange: %v", err)
	}
	if start.Format("2006-01-02") != "2020-01-01" {
		t.Errorf("start = %v", start)
	}
	if end.Format("2006-01-02") != "2020-06-01" {
		t.Errorf("end = %v", end)
	}
}

func TestParseDateRangeFromArgs_tooMany(t *testing.T) {
	_, _, err := parseDateRangeFromArgs([]string{"2020", "2021", "2022"})
	if err == nil {
		t.Fatal("Expected error for three date arguments")
	}
}
