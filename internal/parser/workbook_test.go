package parser

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookParser_ExcludesZeroCaseSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetSheetName("Sheet1", "Jane Doe")
	_ = f.SetCellValue("Jane Doe", "H1", "Sam Lee")
	_ = f.SetCellValue("Jane Doe", "A3", "Q1")
	_ = f.SetCellValue("Jane Doe", "B4", 12)
	_ = f.SetCellValue("Jane Doe", "J4", "Jan")

	// Second sheet has a quarter marker but no case rows at all.
	if _, err := f.NewSheet("Bob Smith"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	_ = f.SetCellValue("Bob Smith", "A3", "Q1")

	result := NewWorkbookParser(zerolog.Nop()).Parse(f)

	if len(result.Engineers) != 1 {
		t.Fatalf("Engineers = %d, want 1", len(result.Engineers))
	}
	if result.Engineers[0].Name != "Jane Doe" {
		t.Fatalf("Engineers[0] = %q", result.Engineers[0].Name)
	}
	if result.TotalCases != 1 {
		t.Fatalf("TotalCases = %d, want 1", result.TotalCases)
	}
	if result.DetectedCoach != "Sam Lee" {
		t.Fatalf("DetectedCoach = %q", result.DetectedCoach)
	}
	if len(result.Quarters) != 1 || result.Quarters[0] != "Q1" {
		t.Fatalf("Quarters = %v", result.Quarters)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", result.Errors)
	}
}

func TestWorkbookParser_CoachMismatchIsWarning(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetSheetName("Sheet1", "Jane Doe")
	_ = f.SetCellValue("Jane Doe", "H1", "Sam Lee")
	_ = f.SetCellValue("Jane Doe", "A3", "Q1")
	_ = f.SetCellValue("Jane Doe", "B4", 1)

	if _, err := f.NewSheet("Bob Smith"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	_ = f.SetCellValue("Bob Smith", "H1", "Tara Wong")
	_ = f.SetCellValue("Bob Smith", "A3", "Q2")
	_ = f.SetCellValue("Bob Smith", "B4", 2)

	result := NewWorkbookParser(zerolog.Nop()).Parse(f)

	// First sheet's coach wins, but the mismatch is surfaced.
	if result.DetectedCoach != "Sam Lee" {
		t.Fatalf("DetectedCoach = %q, want Sam Lee", result.DetectedCoach)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one mismatch warning", result.Warnings)
	}
	if len(result.Engineers) != 2 {
		t.Fatalf("Engineers = %d, want 2", len(result.Engineers))
	}
}

func TestWorkbookParser_EmptySheetRecordedAsError(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet1 stays empty; the second sheet parses fine.
	if _, err := f.NewSheet("Jane Doe"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	_ = f.SetCellValue("Jane Doe", "A3", "Q1")
	_ = f.SetCellValue("Jane Doe", "B4", 5)

	result := NewWorkbookParser(zerolog.Nop()).Parse(f)

	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry for the empty sheet", result.Errors)
	}
	if len(result.Engineers) != 1 {
		t.Fatalf("Engineers = %d, want the valid sheet to survive", len(result.Engineers))
	}
}
