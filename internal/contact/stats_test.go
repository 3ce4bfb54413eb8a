package contact

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// ComputeStats
// ---------------------------------------------------------------------------

func TestComputeStats(t *testing.T) {
	contacts := []Contact{
		{Status: StatusNew, Priority: PriorityHigh},
		{Status: StatusNew, Priority: PriorityMedium},
		{Status: StatusContacted, Priority: PriorityMedium},
		{Status: StatusInterested, Priority: PriorityLow},
		{Status: StatusNotInterested, Priority: PriorityLow},
		{Status: StatusConverted, Priority: PriorityHigh},
		{Status: StatusConverted, Priority: PriorityMedium},
		{Status: StatusConverted, Priority: PriorityLow},
	}

	got := ComputeStats(contacts)

	if got.TotalContacts != 8 {
		t.Errorf("TotalContacts = %d, want 8", got.TotalContacts)
	}
	if got.NewCount != 2 || got.ContactedCount != 1 || got.InterestedCount != 1 ||
		got.NotInterestedCount != 1 || got.ConvertedCount != 3 {
		t.Errorf("status counts = %d/%d/%d/%d/%d, want 2/1/1/1/3",
			got.NewCount, got.ContactedCount, got.InterestedCount,
			got.NotInterestedCount, got.ConvertedCount)
	}
	if got.HighPriority != 2 || got.MediumPriority != 3 || got.LowPriority != 3 {
		t.Errorf("priority counts = %d/%d/%d, want 2/3/3",
			got.HighPriority, got.MediumPriority, got.LowPriority)
	}

	// 3 converted of 8 = 37.5%, 5 engaged of 8 = 62.5%.
	if got.ConversionRate != 37.5 {
		t.Errorf("ConversionRate = %v, want 37.5", got.ConversionRate)
	}
	if got.EngagementRate != 62.5 {
		t.Errorf("EngagementRate = %v, want 62.5", got.EngagementRate)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	got := ComputeStats(nil)

	if got.TotalContacts != 0 {
		t.Errorf("TotalContacts = %d, want 0", got.TotalContacts)
	}
	if got.ConversionRate != 0 || got.EngagementRate != 0 {
		t.Errorf("rates = %v/%v, want 0/0", got.ConversionRate, got.EngagementRate)
	}
}

// ---------------------------------------------------------------------------
// OperatorDistribution
// ---------------------------------------------------------------------------

func TestOperatorDistribution(t *testing.T) {
	contacts := []Contact{
		{Operators: "Telia"},
		{Operators: "TELIA\nTele2"}, // first recognized carrier wins
		{Operators: "Tele2"},
		{Operators: "Hi3G Access"}, // Tre's registered name
		{Operators: "Tre"},
		{Operators: "Telenor"},
		{Operators: "Comviq"}, // unrecognized carrier falls through
		{Operators: ""},
	}

	got := OperatorDistribution(contacts)
	want := []OperatorShare{
		{Name: "Telia", Value: 2, Color: "#7B2D8E"},
		{Name: "Tele2", Value: 1, Color: "#00A0D1"},
		{Name: "Tre", Value: 2, Color: "#E4002B"},
		{Name: "Telenor", Value: 1, Color: "#00B0B9"},
		{Name: "Other", Value: 2, Color: "#6B7280"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OperatorDistribution() = %+v, want %+v", got, want)
	}
}

func TestOperatorDistribution_OmitsZeroBuckets(t *testing.T) {
	contacts := []Contact{
		{Operators: "Telenor"},
		{Operators: "Telenor"},
	}

	got := OperatorDistribution(contacts)
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1: %+v", len(got), got)
	}
	if got[0].Name != "Telenor" || got[0].Value != 2 {
		t.Errorf("bucket = %+v, want Telenor/2", got[0])
	}
}

func TestOperatorDistribution_Empty(t *testing.T) {
	if got := OperatorDistribution(nil); len(got) != 0 {
		t.Errorf("got %+v, want no buckets", got)
	}
}
