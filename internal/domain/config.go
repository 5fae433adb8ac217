package domain

// KeyPrefix namespaces every key the service writes to the cache store.
const KeyPrefix = "tagquery:"

// DefaultMaxResults caps the number of identifiers returned by one search.
const DefaultMaxResults = 10000
