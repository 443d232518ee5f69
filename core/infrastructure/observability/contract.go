package observability

// Span and metric attribute keys
const (
	AttrRequestID     = "request.id"
	AttrReportName    = "report.name"
	AttrReportRows    = "report.rows"
	AttrReportOutcome = "report.outcome"
	AttrErrorType     = "error.type"
)

// Report outcomes used as metric labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
