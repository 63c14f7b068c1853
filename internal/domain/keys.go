package domain

// KeyPrefix namespaces every backend key written by this module.
const KeyPrefix = "lexivec:"

// IndexKey returns the FT index name for a logical index.
func IndexKey(index string) string { return KeyPrefix + index + ":idx" }

// DocPrefix returns the hash key prefix for documents of an index.
func DocPrefix(index string) string { return KeyPrefix + index + ":doc:" }

// DocKey returns the hash key of one document.
func DocKey(index, id string) string { return DocPrefix(index) + id }

// SchemaKey returns the key holding the persisted schema of an index.
func SchemaKey(index string) string { return KeyPrefix + index + ":schema" }
