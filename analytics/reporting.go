package analytics

import (
	"sort"
	"time"

	"bookstore/models"
)

// AssumedCostRatio is the fixed cost-of-goods assumption applied against
// revenue when computing profitability.
const AssumedCostRatio = 0.6

// SaleLine is one completed sale line joined with its book metadata, the
// raw material for the aggregate reports.
type SaleLine struct {
	SaleID    string
	CreatedAt time.Time
	Quantity  int
	Subtotal  float64
	Category  string
	Author    string
	Publisher string
}

// BuildSalesAnalytics totals completed sale lines over a window and breaks
// them down per calendar day.
func BuildSalesAnalytics(start, end time.Time, lines []SaleLine) models.SalesAnalytics {
	report := models.SalesAnalytics{
		StartDate:      start,
		EndDate:        end,
		DailyBreakdown: []models.DailyRevenue{},
	}

	orders := map[string]bool{}
	days := map[time.Time]*models.DailyRevenue{}
	dayOrders := map[time.Time]map[string]bool{}

	for _, l := range lines {
		report.TotalRevenue += l.Subtotal
		report.TotalUnits += l.Quantity
		orders[l.SaleID] = true

		day := truncateToDay(l.CreatedAt)
		if days[day] == nil {
			days[day] = &models.DailyRevenue{Date: day}
			dayOrders[day] = map[string]bool{}
		}
		days[day].Revenue += l.Subtotal
		days[day].Units += l.Quantity
		dayOrders[day][l.SaleID] = true
	}

	report.TotalOrders = len(orders)
	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue / float64(report.TotalOrders)
	}

	for day, d := range days {
		d.Orders = len(dayOrders[day])
		report.DailyBreakdown = append(report.DailyBreakdown, *d)
	}
	sort.Slice(report.DailyBreakdown, func(i, j int) bool {
		return report.DailyBreakdown[i].Date.Before(report.DailyBreakdown[j].Date)
	})

	return report
}

// BuildProfitability applies the assumed cost ratio to windowed revenue,
// grouped by category, author, and publisher. Groups come back sorted by
// revenue, highest first.
func BuildProfitability(start, end time.Time, lines []SaleLine) models.ProfitabilityReport {
	report := models.ProfitabilityReport{
		StartDate: start,
		EndDate:   end,
		CostRatio: AssumedCostRatio,
	}

	for _, l := range lines {
		report.TotalRevenue += l.Subtotal
	}
	report.TotalProfit = report.TotalRevenue * (1 - AssumedCostRatio)

	report.ByCategory = groupProfits(lines, func(l SaleLine) string { return l.Category })
	report.ByAuthor = groupProfits(lines, func(l SaleLine) string { return l.Author })
	report.ByPublisher = groupProfits(lines, func(l SaleLine) string { return l.Publisher })

	return report
}

func groupProfits(lines []SaleLine, key func(SaleLine) string) []models.GroupProfit {
	revenues := map[string]float64{}
	order := []string{}

	for _, l := range lines {
		k := key(l)
		if _, seen := revenues[k]; !seen {
			order = append(order, k)
		}
		revenues[k] += l.Subtotal
	}

	groups := make([]models.GroupProfit, 0, len(order))
	for _, k := range order {
		revenue := revenues[k]
		groups = append(groups, models.GroupProfit{
			Name:          k,
			Revenue:       revenue,
			EstimatedCost: revenue * AssumedCostRatio,
			GrossProfit:   revenue * (1 - AssumedCostRatio),
			Margin:        (1 - AssumedCostRatio) * 100,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Revenue > groups[j].Revenue
	})

	return groups
}

// BuildSeasonality rolls completed sale lines up by month-of-year and
// day-of-week. Only buckets with at least one sale appear, in calendar
// order; best/worst picks scan in that order, so ties keep the first
// bucket encountered.
func BuildSeasonality(lines []SaleLine) models.SeasonalityReport {
	months := map[time.Month]*models.SeasonBucket{}
	weekdays := map[time.Weekday]*models.SeasonBucket{}
	monthOrders := map[time.Month]map[string]bool{}
	weekdayOrders := map[time.Weekday]map[string]bool{}

	for _, l := range lines {
		m := l.CreatedAt.Month()
		if months[m] == nil {
			months[m] = &models.SeasonBucket{Label: m.String()}
			monthOrders[m] = map[string]bool{}
		}
		months[m].Revenue += l.Subtotal
		months[m].Units += l.Quantity
		monthOrders[m][l.SaleID] = true

		w := l.CreatedAt.Weekday()
		if weekdays[w] == nil {
			weekdays[w] = &models.SeasonBucket{Label: w.String()}
			weekdayOrders[w] = map[string]bool{}
		}
		weekdays[w].Revenue += l.Subtotal
		weekdays[w].Units += l.Quantity
		weekdayOrders[w][l.SaleID] = true
	}

	report := models.SeasonalityReport{
		ByMonth:     []models.SeasonBucket{},
		ByDayOfWeek: []models.SeasonBucket{},
	}

	for m := time.January; m <= time.December; m++ {
		if b := months[m]; b != nil {
			b.Orders = len(monthOrders[m])
			report.ByMonth = append(report.ByMonth, *b)
		}
	}
	for w := time.Sunday; w <= time.Saturday; w++ {
		if b := weekdays[w]; b != nil {
			b.Orders = len(weekdayOrders[w])
			report.ByDayOfWeek = append(report.ByDayOfWeek, *b)
		}
	}

	report.BestMonth, report.WorstMonth = bestAndWorst(report.ByMonth)
	report.BestWeekday, report.WorstWeekday = bestAndWorst(report.ByDayOfWeek)

	return report
}

func bestAndWorst(buckets []models.SeasonBucket) (best, worst string) {
	if len(buckets) == 0 {
		return "", ""
	}
	bi, wi := 0, 0
	for i, b := range buckets {
		if b.Revenue > buckets[bi].Revenue {
			bi = i
		}
		if b.Revenue < buckets[wi].Revenue {
			wi = i
		}
	}
	return buckets[bi].Label, buckets[wi].Label
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
