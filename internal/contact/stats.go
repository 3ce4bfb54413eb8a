package contact

import "strings"

// ComputeStats aggregates status and priority counts plus the derived
// conversion and engagement rates (percentages, 0 when empty).
func ComputeStats(contacts []Contact) DashboardStats {
	stats := DashboardStats{TotalContacts: len(contacts)}

	for i := range contacts {
		switch contacts[i].Status {
		case StatusNew:
			stats.NewCount++
		case StatusContacted:
			stats.ContactedCount++
		case StatusInterested:
			stats.InterestedCount++
		case StatusNotInterested:
			stats.NotInterestedCount++
		case StatusConverted:
			stats.ConvertedCount++
		}
		switch contacts[i].Priority {
		case PriorityHigh:
			stats.HighPriority++
		case PriorityMedium:
			stats.MediumPriority++
		case PriorityLow:
			stats.LowPriority++
		}
	}

	if stats.TotalContacts > 0 {
		engaged := stats.ContactedCount + stats.InterestedCount + stats.ConvertedCount
		stats.ConversionRate = float64(stats.ConvertedCount) / float64(stats.TotalContacts) * 100
		stats.EngagementRate = float64(engaged) / float64(stats.TotalContacts) * 100
	}
	return stats
}

// Chart colors per operator bucket.
var operatorColors = map[string]string{
	"telia":   "#7B2D8E",
	"tele2":   "#00A0D1",
	"tre":     "#E4002B",
	"telenor": "#00B0B9",
	"other":   "#6B7280",
}

// operatorBuckets is the bucketing order for the dashboard chart.
// Tre trades as HI3G in registry exports, so both count as tre.
var operatorBuckets = []string{"telia", "tele2", "tre", "telenor", "other"}

// OperatorDistribution buckets contacts by the first recognized
// carrier in their operators field. Buckets with zero contacts are
// omitted. The matching mirrors the UI's case-insensitive operator
// filter.
func OperatorDistribution(contacts []Contact) []OperatorShare {
	counts := make(map[string]int, len(operatorBuckets))

	for i := range contacts {
		ops := strings.ToLower(contacts[i].Operators)
		switch {
		case strings.Contains(ops, "telia"):
			counts["telia"]++
		case strings.Contains(ops, "tele2"):
			counts["tele2"]++
		case strings.Contains(ops, "tre"), strings.Contains(ops, "hi3g"):
			counts["tre"]++
		case strings.Contains(ops, "telenor"):
			counts["telenor"]++
		default:
			counts["other"]++
		}
	}

	shares := make([]OperatorShare, 0, len(operatorBuckets))
	for _, name := range operatorBuckets {
		if counts[name] == 0 {
			continue
		}
		shares = append(shares, OperatorShare{
			Name:  strings.ToUpper(name[:1]) + name[1:],
			Value: counts[name],
			Color: operatorColors[name],
		})
	}
	return shares
}
