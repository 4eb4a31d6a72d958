// Package library persists the owned-games collection in SQLite.
//
// The Store manages database connections, schema initialization, game CRUD,
// enrichment merges, owned-DLC flags, and JSON backups. Games are keyed by an
// auto-generated local id; the (external id, platform) pair is not unique at
// the schema level and is only enforced when merging a backup, which never
// overwrites an existing record.
//
// Schema changes bump the version in schema.go and update schema.sql.
package library
