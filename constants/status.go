package constants

// DocumentStatus is the outcome of processing one source document.
type DocumentStatus string

const (
	DocumentStatusOK            DocumentStatus = "OK"             // vendor identified, records extracted
	DocumentStatusUnknownVendor DocumentStatus = "UNKNOWN_VENDOR" // no template identifier matched
	DocumentStatusNoRecords     DocumentStatus = "NO_RECORDS"     // vendor known, nothing extracted
	DocumentStatusFailed        DocumentStatus = "FAILED"         // document could not be read
)
