// Package resource loads fixture statements from files.
//
// Statements reads plain files in a given order. LoadVersioned reads a
// directory laid out the way golang-migrate expects it:
//
//	1_create_users.up.sql
//	1_create_users.down.sql
//	2_seed_users.up.sql
//	2_seed_users.down.sql
//
// Up files become the setup batch in ascending version order and down
// files the teardown batch in descending order. Nothing is recorded in
// the database; the version numbers only order the statements.
package resource
