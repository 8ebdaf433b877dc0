/*
Package ports defines the driven ports (interfaces) for catsort.

# Key Interfaces

  - DistributedLocker: serializes runs for one view across replicas, so that
    two invocations never rewrite the same document concurrently.
*/
package ports
