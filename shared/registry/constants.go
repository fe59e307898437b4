// shared/registry/constants.go
package registry

const (
	// RedisRegistryHashPrefix prefixes the per-service-type registry hash,
	// e.g. "services:hunt-worker".
	RedisRegistryHashPrefix = "services:"

	ServiceTypeHuntAPI    = "hunt-api"
	ServiceTypeHuntWorker = "hunt-worker"
)

func hashKey(serviceType string) string {
	return RedisRegistryHashPrefix + serviceType
}
