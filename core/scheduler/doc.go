// Package scheduler registers recurring callbacks by name.
//
// It replaces the host platform's scheduled-task facility: Register refuses a second
// registration of the same name with ErrAlreadyScheduled, and Clear removes it. The
// "start" command registers the bulk sync pass here when sync.schedule_enabled is set.
package scheduler
