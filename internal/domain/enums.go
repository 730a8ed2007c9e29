package domain

// SyncState is the observable state of the gallery synchronizer.
type SyncState string

const (
	SyncStateIdle      SyncState = "idle"
	SyncStateLoading   SyncState = "loading"
	SyncStateUploading SyncState = "uploading"
)

// UploadStatus describes the outcome of an upload request.
type UploadStatus string

const (
	UploadStatusCompleted          UploadStatus = "completed"
	UploadStatusSkippedNoSelection UploadStatus = "skipped_no_selection"
	UploadStatusSkippedInFlight    UploadStatus = "skipped_in_flight"
)

// ExportFormat is a supported gallery manifest format.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps each export format to its MIME content type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// DefaultMaxFileSizeBytes is the upload size ceiling when none is configured.
const DefaultMaxFileSizeBytes int64 = 5 * 1024 * 1024
