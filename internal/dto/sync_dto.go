package dto

type SyncStatusResponse struct {
	AcertoID    string  `json:"acerto_id"`
	SyncStatus  string  `json:"sync_status"`
	RetryCount  int     `json:"retry_count"`
	NextRetryAt *string `json:"next_retry_at,omitempty"`
	LastError   *string `json:"last_error,omitempty"`
}
