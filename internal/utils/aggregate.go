package utils

import (
	"sort"
	"time"

	"reservation-backoffice/internal/domain"
)

// GrowthPercentage returns (current-previous)/previous*100. It is 0 when previous is 0.
func GrowthPercentage(current, previous int32) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// RankLocations sorts by count descending then name ascending and keeps the first n.
// n <= 0 keeps every entry. The input slice is not modified.
func RankLocations(counts []domain.LocationCount, n int) []domain.LocationCount {
	ranked := make([]domain.LocationCount, len(counts))
	copy(ranked, counts)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RankCommissions orders commission rollups by total descending then name ascending.
func RankCommissions(counts []domain.CommissionCount) []domain.CommissionCount {
	ranked := make([]domain.CommissionCount, len(counts))
	copy(ranked, counts)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// CountStatuses folds reservations into overview counts
func CountStatuses(reservations []domain.Reservation) domain.StatusCounts {
	var c domain.StatusCounts
	for _, r := range reservations {
		c.Add(r.Status)
	}
	return c
}

// RollupByLocation counts reservations per location. Locations must carry their joined
// Location; seed lists locations that should appear even with zero reservations.
func RollupByLocation(reservations []domain.Reservation, seed []domain.Location) []domain.LocationCount {
	index := make(map[int32]int)
	var counts []domain.LocationCount
	add := func(l domain.Location) int {
		if i, ok := index[l.ID]; ok {
			return i
		}
		index[l.ID] = len(counts)
		counts = append(counts, domain.LocationCount{ID: l.ID, Name: l.Name, MaxDurationHours: l.MaxDurationHours})
		return len(counts) - 1
	}
	for _, l := range seed {
		add(l)
	}
	for _, r := range reservations {
		loc := domain.Location{ID: r.LocationID}
		if r.Location != nil {
			loc = *r.Location
			loc.ID = r.LocationID
		}
		counts[add(loc)].Count++
	}
	return counts
}

// RollupByCommission sums reservation statuses per commission of the reservation's
// location. Output is ordered by total descending then name ascending.
func RollupByCommission(reservations []domain.Reservation) []domain.CommissionCount {
	index := make(map[int32]int)
	var counts []domain.CommissionCount
	for _, r := range reservations {
		if r.Location == nil {
			continue
		}
		id := r.Location.CommissionID
		i, ok := index[id]
		if !ok {
			cc := domain.CommissionCount{ID: id}
			if r.Location.Commission != nil {
				cc.Name = r.Location.Commission.Name
				cc.Color = r.Location.Commission.Color
			}
			i = len(counts)
			index[id] = i
			counts = append(counts, cc)
		}
		counts[i].Add(r.Status)
	}
	return RankCommissions(counts)
}

// RollupByValidator counts the ACCEPTED and REJECTED reservations each validator decided.
// Output is ordered by decisions descending then name ascending.
func RollupByValidator(reservations []domain.Reservation) []domain.ValidatorCount {
	index := make(map[int32]int)
	var counts []domain.ValidatorCount
	for _, r := range reservations {
		if r.ValidatedBy == nil {
			continue
		}
		if r.Status != domain.ReservationStatusAccepted && r.Status != domain.ReservationStatusRejected {
			continue
		}
		i, ok := index[*r.ValidatedBy]
		if !ok {
			vc := domain.ValidatorCount{UserID: *r.ValidatedBy}
			if r.Validator != nil {
				vc.Name = r.Validator.Name
			}
			i = len(counts)
			index[*r.ValidatedBy] = i
			counts = append(counts, vc)
		}
		if r.Status == domain.ReservationStatusAccepted {
			counts[i].Accepted++
		} else {
			counts[i].Rejected++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		ti, tj := counts[i].Accepted+counts[i].Rejected, counts[j].Accepted+counts[j].Rejected
		if ti != tj {
			return ti > tj
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// DailySeries buckets reservations by creation day over the windowDays days ending on
// the day of now. It always returns windowDays+1 contiguous, zero-filled points.
// Cancelled reservations are not charted.
func DailySeries(reservations []domain.Reservation, now time.Time, windowDays int, loc *time.Location) []domain.DailyPoint {
	if windowDays < 0 {
		windowDays = 0
	}
	first := StartOfDay(now, loc).AddDate(0, 0, -windowDays)
	points := make([]domain.DailyPoint, windowDays+1)
	index := make(map[string]int, windowDays+1)
	for i := range points {
		key := first.AddDate(0, 0, i).Format(DateLayout)
		points[i].Date = key
		index[key] = i
	}

	for _, r := range reservations {
		i, ok := index[DayKey(r.CreatedAt, loc)]
		if !ok {
			continue
		}
		p := &points[i]
		switch r.Status {
		case domain.ReservationStatusPending:
			p.Pending++
		case domain.ReservationStatusAccepted:
			p.Accepted++
		case domain.ReservationStatusRejected:
			p.Rejected++
		default:
			continue
		}
		p.Total++
	}
	return points
}

// ReportRows flattens reservations into report lines
func ReportRows(reservations []domain.Reservation) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(reservations))
	for _, r := range reservations {
		row := domain.ReportRow{
			ID:        r.ID,
			Title:     r.Title,
			Start:     r.Start,
			End:       r.End,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if r.Location != nil {
			row.Location = r.Location.Name
			if r.Location.Commission != nil {
				row.Commission = r.Location.Commission.Name
			}
		}
		if r.User != nil {
			row.User = r.User.Name
			row.UserEmail = r.User.Email
		}
		rows = append(rows, row)
	}
	return rows
}
