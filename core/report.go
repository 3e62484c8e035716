package core

// ReportSet selects which metadata fields are rendered before the
// payload of a log line. Fields always render in the order level, time,
// thread, location, regardless of how the set was built.
type ReportSet uint8

const (
	// ReportLevel renders the severity of the entry.
	ReportLevel ReportSet = 1 << iota
	// ReportTime renders the timestamp of the entry.
	ReportTime
	// ReportThread renders the label of the logging goroutine.
	ReportThread
	// ReportLocation renders the call site of the entry.
	ReportLocation

	// AllReports renders every metadata field.
	AllReports = ReportLevel | ReportTime | ReportThread | ReportLocation
)

// Has reports whether the set includes the given field.
func (s ReportSet) Has(field ReportSet) bool {
	return s&field != 0
}
