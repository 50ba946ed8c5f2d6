package marketanalyze

type Request struct {
	ProduceType     string `json:"produce_type"`
	Location        string `json:"location"`
	Quantity        string `json:"quantity"`
	QualityGrade    string `json:"quality_grade"`
	AdditionalNotes string `json:"additional_notes"`
}
