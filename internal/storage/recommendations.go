package storage

import "time"

// RecommendationFilter narrows recommendation listings.
type RecommendationFilter struct {
	SignalType    string
	MinConfidence *float64
	Symbol        string
	ActiveOnly    bool
	ClosedOnly    bool
	Outcome       string

	Page    int
	PerPage int
}

func (r *Repository) CreateRecommendation(rec *Recommendation) error {
	return r.db.Create(rec).Error
}

func (r *Repository) UpdateRecommendation(rec *Recommendation) error {
	return r.db.Save(rec).Error
}

func (r *Repository) GetRecommendation(id string) (*Recommendation, error) {
	var rec Recommendation
	if err := r.db.Preload("Stock").Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) ListRecommendations(f RecommendationFilter) ([]Recommendation, int64, error) {
	q := r.db.Model(&Recommendation{}).Preload("Stock")

	if f.ActiveOnly {
		q = q.Where("actual_outcome = ''").
			Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC())
	}
	if f.ClosedOnly {
		q = q.Where("actual_outcome <> ''")
	}
	if f.Outcome != "" {
		q = q.Where("actual_outcome = ?", f.Outcome)
	}
	if f.SignalType != "" {
		q = q.Where("signal_type = ?", f.SignalType)
	}
	if f.MinConfidence != nil {
		q = q.Where("confidence >= ?", *f.MinConfidence)
	}
	if f.Symbol != "" {
		q = q.Joins("JOIN stocks ON stocks.id = recommendations.stock_id").
			Where("stocks.symbol = ?", f.Symbol)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.ClosedOnly || f.Outcome != "" {
		q = q.Order("closed_at DESC")
	} else {
		q = q.Order("confidence DESC, recommendations.created_at DESC")
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var recs []Recommendation
	err := q.Offset((page - 1) * perPage).Limit(perPage).Find(&recs).Error
	return recs, total, err
}

// ClosedRecommendationsSince returns recommendations with a recorded
// outcome closed on or after the cutoff, for performance stats.
func (r *Repository) ClosedRecommendationsSince(cutoff time.Time) ([]Recommendation, error) {
	var recs []Recommendation
	err := r.db.Where("actual_outcome <> '' AND closed_at >= ?", cutoff).Find(&recs).Error
	return recs, err
}
