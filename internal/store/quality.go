package store

import (
	"context"

	"github.com/lib/pq"
)

func (s *Store) InsertQualityReport(ctx context.Context, rep *QualityReport) error {
	query := `
		INSERT INTO quality_reports (
			user_id, product_type, product_name, image_url,
			quality_grade, quality_score, visual_assessment, defects_detected,
			market_readiness, recommendations, estimated_price_range, shelf_life
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		rep.UserID, rep.ProductType, rep.ProductName, rep.ImageURL,
		rep.QualityGrade, rep.QualityScore, pq.Array(rep.VisualAssessment), pq.Array(rep.DefectsDetected),
		rep.MarketReadiness, rep.Recommendations, rep.EstimatedPriceRange, rep.ShelfLife,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}
