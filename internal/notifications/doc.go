// Package notifications delivers run milestones via ntfy push messages.
//
// The default implementation publishes to the topic configured in the
// [notifications] table and gracefully degrades to a no-op when no topic
// is set, so callers never need to guard their notification calls.
//
// Extend this package if you need alternative transports; the archiving
// run depends only on the Service interface.
package notifications
