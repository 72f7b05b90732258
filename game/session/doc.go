// Package session keeps open map editing sessions.
//
// Manager stores sessions in memory keyed by a case-insensitive ID. New
// sessions get the first 8 hex characters of a random UUID unless the
// caller names one. IDs are restricted to letters, digits, '-' and '_' so
// they can double as file names.
//
// With a SessionPersistence attached, sessions are written on creation and
// on every Save, and are loaded lazily from storage when Get misses.
// Expired sessions are only dropped from memory.
//
// FilePersistence writes two files per session:
//
//	<id>.tilemap     the map in .tilemap text form
//	<id>.meta.json   selected layer and tile, camera, timestamps, preset
//
// A .tilemap file placed in the sessions directory by hand can be opened
// as a session; missing metadata falls back to editor defaults.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", inspector)
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Warn(err)
//	}
package session
