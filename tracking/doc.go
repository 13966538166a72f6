// Package tracking turns tree observer callbacks into sequenced change
// events and delivers them to sinks: the on-disk change log, the pebble
// outbox, a Kafka stream, or memory.
//
// Emitter is the rbtree.ChangeTracker. It stamps each event with the next
// sequence number and writes it to every sink in order. The first sink
// failure is kept and all later events are dropped; callers check Err after
// each tree operation.
package tracking
