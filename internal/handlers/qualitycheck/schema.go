package qualitycheck

import (
	"fmt"

	"mavuno-backend/internal/generation"
)

// qualitySchema is the contract the grading model must satisfy.
var qualitySchema = generation.MustSchema(`{
	"type": "object",
	"properties": {
		"quality_grade": {
			"type": "string",
			"enum": ["premium", "grade_a", "grade_b", "grade_c", "reject"]
		},
		"quality_score": {"type": "number"},
		"visual_assessment": {
			"type": "array",
			"items": {"type": "string"}
		},
		"defects_detected": {
			"type": "array",
			"items": {"type": "string"}
		},
		"market_readiness": {
			"type": "string",
			"enum": ["ready", "needs_improvement", "not_ready"]
		},
		"recommendations": {"type": "string"},
		"estimated_price_range": {"type": "string"},
		"shelf_life": {"type": "string"}
	},
	"required": ["quality_grade", "quality_score", "visual_assessment", "defects_detected", "market_readiness", "recommendations", "estimated_price_range", "shelf_life"]
}`)

func buildPrompt(productName, productType string) string {
	return fmt.Sprintf(`Analyze this %s (%s) image for quality assessment.

Provide:
- Quality grade (premium/grade_a/grade_b/grade_c/reject)
- Quality score (0-100)
- Visual quality indicators (3-5 bullet points of positive aspects)
- Defects detected (list if any, or empty array)
- Market readiness (ready/needs_improvement/not_ready)
- Recommendations for improvement (detailed paragraph)
- Estimated price range in Kenyan Shillings (format: "KSh X-Y per unit")
- Expected shelf life (e.g., "5-7 days")

Context: This is for a Kenyan farmer/buyer assessing agricultural product quality.`, productName, productType)
}
