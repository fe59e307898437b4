// shared/redis/constants.go
package redis

const (
	// NotificationQueueKey is the list hunt-api RPUSHes notification envelopes onto
	// and hunt-worker BLPOPs from.
	NotificationQueueKey = "hunt:notifications:queue"
	// NotificationDeadLetterKey holds envelopes the worker could not decode or insert.
	NotificationDeadLetterKey = "hunt:notifications:dead"
)
