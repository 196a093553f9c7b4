package notify

// rejectionReasons maps moderation reason codes to the human-readable text
// used in seller-facing rejection emails. Kept as data so new codes can be
// added without touching control flow.
var rejectionReasons = map[string]string{
	"incomplete_info":      "The listing is missing required information.",
	"poor_quality_images":  "The photos are too low quality to represent the property.",
	"duplicate_listing":    "This property appears to be listed already.",
	"misleading_details":   "The listing contains misleading or inaccurate details.",
	"prohibited_content":   "The listing contains content that is not permitted.",
	"suspected_fraud":      "The listing could not be verified as genuine.",
	"wrong_category":       "The listing was submitted under the wrong category.",
	"pricing_unrealistic":  "The asking price is outside a plausible range for this property.",
	"contact_info_in_body": "Contact details are not allowed in the listing description.",
	"other":                "The listing does not meet our publication guidelines.",
}

// ReasonText resolves a rejection reason code to its display text. Unknown
// codes fall back to the "other" text.
func ReasonText(code string) string {
	if text, ok := rejectionReasons[code]; ok {
		return text
	}
	return rejectionReasons["other"]
}
