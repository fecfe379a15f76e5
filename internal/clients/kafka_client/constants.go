package kafka_client

import "time"

const (
	KAFKA_TOPIC_RAW_COMMENTS     = "raw-comments"     // JSON arrays of scraped comments
	KAFKA_TOPIC_LABELED_COMMENTS = "labeled-comments" // JSON arrays of labelled comments
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)
