// Package redis provides a Redis-backed ports.DistributedLocker, letting
// several catsort servers share per-view run serialization.
package redis
